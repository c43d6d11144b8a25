package session

import (
	"github.com/google/uuid"
)

// Record is a read-only snapshot of an identity's active contract memberships
// within a tenant, as returned by the upstream session service. It is never
// mutated after construction; one snapshot serves exactly one resolution.
type Record struct {
	PartyID   uuid.UUID            `json:"party_id"`
	TenantID  uuid.UUID            `json:"tenant_id"`
	Contracts []ContractMembership `json:"contracts"`
}

// ContractMembership binds a party to a contract, optionally narrowed to a
// single product, with the role the party holds in that contract.
type ContractMembership struct {
	ContractID uuid.UUID   `json:"contract_id"`
	Active     bool        `json:"active"`
	Product    *ProductRef `json:"product,omitempty"`
	Role       *RoleGrant  `json:"role,omitempty"`
}

// ProductRef identifies the product a membership is scoped to.
type ProductRef struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name,omitempty"`
}

// RoleGrant is the role assigned to a party within one contract membership,
// along with the action scopes that role carries.
type RoleGrant struct {
	RoleCode string        `json:"role_code"`
	Active   bool          `json:"active"`
	Scopes   []ActionScope `json:"scopes,omitempty"`
}

// ActionScope is one unit of permission under a role: an action type applied
// to a resource type, e.g. (READ, BALANCE).
type ActionScope struct {
	ActionType   string `json:"action_type"`
	ResourceType string `json:"resource_type"`
	Active       bool   `json:"active"`
}
