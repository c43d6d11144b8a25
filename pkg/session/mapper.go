package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RoleUnknown is substituted into permission strings when a role grant has
// scopes but no role code.
const RoleUnknown = "unknown"

// ExtractRoles returns the role codes applicable to the given scope.
//
// Scoping rules:
//   - contractID and productID both nil: every active membership contributes
//     (the party-level aggregate across all contracts).
//   - contractID set: only memberships for that contract contribute.
//   - productID set: additionally, only memberships whose product reference
//     matches contribute; memberships without a product are skipped.
//
// Inactive memberships and inactive role grants never contribute. The result
// is a set: duplicates collapse and iteration order carries no meaning.
func ExtractRoles(rec *Record, contractID, productID *uuid.UUID) map[string]struct{} {
	roles := make(map[string]struct{})
	if rec == nil {
		return roles
	}

	for _, m := range rec.Contracts {
		if !membershipInScope(m, contractID, productID) {
			continue
		}
		if m.Role == nil || !m.Role.Active {
			continue
		}
		if code := strings.TrimSpace(m.Role.RoleCode); code != "" {
			roles[code] = struct{}{}
		}
	}
	return roles
}

// ExtractPermissions returns the permission strings applicable to the given
// scope. Each active action scope under an active role grant yields one
// permission formatted as "roleCode:actionType:resourceType"; a missing role
// code falls back to RoleUnknown. Scoping rules are the same as ExtractRoles.
func ExtractPermissions(rec *Record, contractID, productID *uuid.UUID) map[string]struct{} {
	perms := make(map[string]struct{})
	if rec == nil {
		return perms
	}

	for _, m := range rec.Contracts {
		if !membershipInScope(m, contractID, productID) {
			continue
		}
		if m.Role == nil || !m.Role.Active {
			continue
		}

		role := m.Role.RoleCode
		if role == "" {
			role = RoleUnknown
		}
		for _, scope := range m.Role.Scopes {
			if !scope.Active || scope.ActionType == "" || scope.ResourceType == "" {
				continue
			}
			perms[fmt.Sprintf("%s:%s:%s", role, scope.ActionType, scope.ResourceType)] = struct{}{}
		}
	}
	return perms
}

// HasProductAccess reports whether any active membership grants access to the
// given product, regardless of role or permissions.
func HasProductAccess(rec *Record, productID uuid.UUID) bool {
	if rec == nil {
		return false
	}
	for _, m := range rec.Contracts {
		if m.Active && m.Product != nil && m.Product.ProductID == productID {
			return true
		}
	}
	return false
}

// HasPermission reports whether the party holds an active action scope for
// the given product. Action and resource types compare case-insensitively;
// an empty resourceType matches any resource.
func HasPermission(rec *Record, productID uuid.UUID, actionType, resourceType string) bool {
	if rec == nil || actionType == "" {
		return false
	}
	for _, m := range rec.Contracts {
		if !m.Active || m.Product == nil || m.Product.ProductID != productID {
			continue
		}
		if m.Role == nil {
			continue
		}
		for _, scope := range m.Role.Scopes {
			if !scope.Active {
				continue
			}
			if !strings.EqualFold(scope.ActionType, actionType) {
				continue
			}
			if resourceType == "" || strings.EqualFold(scope.ResourceType, resourceType) {
				return true
			}
		}
	}
	return false
}

// membershipInScope applies the contract/product scoping filters to a single
// membership. Inactive memberships are always out of scope.
func membershipInScope(m ContractMembership, contractID, productID *uuid.UUID) bool {
	if !m.Active {
		return false
	}
	if contractID != nil && m.ContractID != *contractID {
		return false
	}
	if productID != nil && (m.Product == nil || m.Product.ProductID != *productID) {
		return false
	}
	return true
}
