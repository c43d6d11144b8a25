package appctx

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harborbank/appcontext/pkg/contextkeys"
)

// Trusted headers populated by the edge gateway after authentication.
const (
	HeaderPartyID    = "X-Party-Id"
	HeaderTenantID   = "X-Tenant-Id"
	HeaderContractID = "X-Contract-Id"
	HeaderProductID  = "X-Product-Id"
)

// Claim names read by ClaimsStrategy, matching the token contract of the
// authentication gateway.
const (
	ClaimSubject    = "sub"
	ClaimPartyID    = "partyId"
	ClaimTenantID   = "tenantId"
	ClaimContractID = "contractId"
	ClaimProductID  = "productId"
)

// HeaderStrategy extracts identifiers from trusted gateway headers. It is
// the default strategy: it supports every request and carries priority 0.
type HeaderStrategy struct {
	priority int
}

// NewHeaderStrategy creates a header strategy with the given priority.
func NewHeaderStrategy(priority int) *HeaderStrategy {
	return &HeaderStrategy{priority: priority}
}

func (s *HeaderStrategy) Supports(_ *http.Request) bool { return true }

func (s *HeaderStrategy) Priority() int { return s.priority }

func (s *HeaderStrategy) PartyID(r *http.Request) (uuid.UUID, bool) {
	return headerUUID(r, HeaderPartyID)
}

func (s *HeaderStrategy) TenantID(r *http.Request) (uuid.UUID, bool) {
	return headerUUID(r, HeaderTenantID)
}

func (s *HeaderStrategy) ContractID(r *http.Request) (uuid.UUID, bool) {
	return headerUUID(r, HeaderContractID)
}

func (s *HeaderStrategy) ProductID(r *http.Request) (uuid.UUID, bool) {
	return headerUUID(r, HeaderProductID)
}

// ClaimsStrategy extracts identifiers from verified token claims that the
// authentication gateway has already placed in the request context. It never
// parses or verifies tokens itself.
//
// The party identity comes from the standard "sub" claim, falling back to an
// explicit "partyId" claim when the subject is not a UUID.
type ClaimsStrategy struct {
	priority int
}

// NewClaimsStrategy creates a claims strategy with the given priority.
// Register it above the header strategy so claims win when both are present.
func NewClaimsStrategy(priority int) *ClaimsStrategy {
	return &ClaimsStrategy{priority: priority}
}

func (s *ClaimsStrategy) Supports(r *http.Request) bool {
	return len(contextkeys.Claims(r.Context())) > 0
}

func (s *ClaimsStrategy) Priority() int { return s.priority }

func (s *ClaimsStrategy) PartyID(r *http.Request) (uuid.UUID, bool) {
	claims := contextkeys.Claims(r.Context())
	if id, ok := claimUUID(claims, ClaimSubject); ok {
		return id, true
	}
	return claimUUID(claims, ClaimPartyID)
}

func (s *ClaimsStrategy) TenantID(r *http.Request) (uuid.UUID, bool) {
	return claimUUID(contextkeys.Claims(r.Context()), ClaimTenantID)
}

func (s *ClaimsStrategy) ContractID(r *http.Request) (uuid.UUID, bool) {
	return claimUUID(contextkeys.Claims(r.Context()), ClaimContractID)
}

func (s *ClaimsStrategy) ProductID(r *http.Request) (uuid.UUID, bool) {
	return claimUUID(contextkeys.Claims(r.Context()), ClaimProductID)
}

func headerUUID(r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.Header.Get(name)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func claimUUID(claims map[string]string, name string) (uuid.UUID, bool) {
	raw, ok := claims[name]
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
