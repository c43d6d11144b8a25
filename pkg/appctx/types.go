package appctx

import (
	"sort"

	"github.com/google/uuid"
)

// Context is the resolved execution context for one inbound operation:
// who is calling (party), under which tenant, optionally narrowed to a
// contract and product, plus the roles and permissions that hold at exactly
// that scope.
//
// A Context is immutable. Every With* method returns a fresh copy; the
// receiver is never modified. Role and permission sets are always derived
// from the currently scoped contract/product pair, which is why WithScope
// drops any grants carried by the receiver.
type Context struct {
	partyID     uuid.UUID
	tenantID    uuid.UUID
	contractID  *uuid.UUID
	productID   *uuid.UUID
	roles       map[string]struct{}
	permissions map[string]struct{}
	attributes  map[string]string
}

// New creates a context for the given party and tenant with no scope,
// no grants and no attributes.
func New(partyID, tenantID uuid.UUID) *Context {
	return &Context{
		partyID:  partyID,
		tenantID: tenantID,
	}
}

// PartyID returns the authenticated caller's identity.
func (c *Context) PartyID() uuid.UUID { return c.partyID }

// TenantID returns the tenant the operation executes under.
func (c *Context) TenantID() uuid.UUID { return c.tenantID }

// ContractID returns the contract scope, or nil for party-level contexts.
func (c *Context) ContractID() *uuid.UUID { return copyID(c.contractID) }

// ProductID returns the product scope, or nil when not product-scoped.
func (c *Context) ProductID() *uuid.UUID { return copyID(c.productID) }

// HasRole reports whether the context carries the given role at its scope.
// Safe on a nil context, which holds nothing.
func (c *Context) HasRole(role string) bool {
	if c == nil {
		return false
	}
	_, ok := c.roles[role]
	return ok
}

// HasPermission reports whether the context carries the given permission
// string at its scope. Safe on a nil context, which holds nothing.
func (c *Context) HasPermission(permission string) bool {
	if c == nil {
		return false
	}
	_, ok := c.permissions[permission]
	return ok
}

// Roles returns the role set as a sorted slice. The slice is a copy.
func (c *Context) Roles() []string { return sortedKeys(c.roles) }

// Permissions returns the permission set as a sorted slice. The slice is a copy.
func (c *Context) Permissions() []string { return sortedKeys(c.permissions) }

// RoleSet returns a copy of the role set.
func (c *Context) RoleSet() map[string]struct{} { return copySet(c.roles) }

// PermissionSet returns a copy of the permission set.
func (c *Context) PermissionSet() map[string]struct{} { return copySet(c.permissions) }

// Attribute returns a free-form attribute by key.
func (c *Context) Attribute(key string) (string, bool) {
	v, ok := c.attributes[key]
	return v, ok
}

// WithScope returns a copy scoped to the given contract/product pair.
// Grants do not carry across scope changes: the returned context has empty
// role and permission sets until re-enriched for the new scope.
func (c *Context) WithScope(contractID, productID *uuid.UUID) *Context {
	out := c.clone()
	out.contractID = copyID(contractID)
	out.productID = copyID(productID)
	out.roles = nil
	out.permissions = nil
	return out
}

// WithGrants returns a copy carrying the given role and permission sets.
// The inputs are copied; later mutation of the arguments does not leak in.
func (c *Context) WithGrants(roles, permissions map[string]struct{}) *Context {
	out := c.clone()
	out.roles = copySet(roles)
	out.permissions = copySet(permissions)
	return out
}

// WithAttribute returns a copy with one free-form attribute added.
func (c *Context) WithAttribute(key, value string) *Context {
	out := c.clone()
	if out.attributes == nil {
		out.attributes = make(map[string]string, 1)
	}
	out.attributes[key] = value
	return out
}

// Authenticated reports whether an identity was resolved.
func (c *Context) Authenticated() bool {
	return c != nil && c.partyID != uuid.Nil
}

func (c *Context) clone() *Context {
	out := &Context{
		partyID:     c.partyID,
		tenantID:    c.tenantID,
		contractID:  copyID(c.contractID),
		productID:   copyID(c.productID),
		roles:       copySet(c.roles),
		permissions: copySet(c.permissions),
	}
	if c.attributes != nil {
		out.attributes = make(map[string]string, len(c.attributes))
		for k, v := range c.attributes {
			out.attributes[k] = v
		}
	}
	return out
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	out := *id
	return &out
}

func copySet(in map[string]struct{}) map[string]struct{} {
	if in == nil {
		return nil
	}
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(in map[string]struct{}) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
