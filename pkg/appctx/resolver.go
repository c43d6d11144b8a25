package appctx

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harborbank/appcontext/pkg/session"
)

// TenantDirectory maps a party to its tenant. The tenant is never
// self-declared by the caller; when a strategy cannot read it from a trusted
// request attribute, the resolver performs this one-hop lookup instead.
type TenantDirectory interface {
	LookupTenant(ctx context.Context, partyID uuid.UUID) (uuid.UUID, error)
}

// SessionSource returns the contract membership snapshot for a party within
// a tenant. Implementations typically call the platform session service.
type SessionSource interface {
	LookupSession(ctx context.Context, partyID, tenantID uuid.UUID) (*session.Record, error)
}

// Strategy extracts identity and tenant identifiers from a request. Multiple
// strategies may coexist; the resolver uses the highest-priority strategy
// that supports the request, ties broken by registration order.
//
// Strategies only cover the identifier-extraction half of resolution.
// Enrichment with roles and permissions is shared and owned by the Resolver.
type Strategy interface {
	// Supports reports whether this strategy can handle the request.
	Supports(r *http.Request) bool

	// Priority orders strategies; higher wins. The default strategy uses 0.
	Priority() int

	// PartyID extracts the caller identity from a trusted request attribute.
	PartyID(r *http.Request) (uuid.UUID, bool)

	// TenantID extracts the tenant from a trusted request attribute.
	TenantID(r *http.Request) (uuid.UUID, bool)

	// ContractID extracts a contract scope hint used only when the invoking
	// layer supplies none.
	ContractID(r *http.Request) (uuid.UUID, bool)

	// ProductID extracts a product scope hint used only when the invoking
	// layer supplies none.
	ProductID(r *http.Request) (uuid.UUID, bool)
}

type registeredStrategy struct {
	Strategy
	order int
}

// Resolver derives a complete execution context from request attributes.
//
// The four-step protocol per resolution: extract the party identity, resolve
// the tenant (trusted attribute or directory lookup), adopt the explicit
// contract/product scope, then enrich with roles and permissions from the
// session snapshot. Steps are sequential by data dependency; independent
// resolutions run fully in parallel.
type Resolver struct {
	strategies []registeredStrategy
	tenants    TenantDirectory
	sessions   SessionSource
	log        *logrus.Logger
}

// NewResolver creates a resolver with no strategies registered. The tenant
// directory may be nil when every strategy carries the tenant itself.
func NewResolver(tenants TenantDirectory, sessions SessionSource, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{
		tenants:  tenants,
		sessions: sessions,
		log:      log,
	}
}

// Register adds a strategy. Strategies are consulted in descending priority;
// equal priorities keep registration order.
func (r *Resolver) Register(s Strategy) {
	r.strategies = append(r.strategies, registeredStrategy{Strategy: s, order: len(r.strategies)})
	sort.SliceStable(r.strategies, func(i, j int) bool {
		if r.strategies[i].Priority() != r.strategies[j].Priority() {
			return r.strategies[i].Priority() > r.strategies[j].Priority()
		}
		return r.strategies[i].order < r.strategies[j].order
	})
}

// Resolve runs the four-step protocol and returns an immutable context.
//
// contractID and productID are the explicit scoping identifiers supplied by
// the invoking layer. When nil, the selected strategy may fall back to its
// own trusted attributes (path segment or header); explicit values are never
// overridden, keeping audit trails unambiguous.
//
// Fails fast with ErrMissingIdentity or ErrMissingTenant; no partial context
// is ever returned.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request, contractID, productID *uuid.UUID) (*Context, error) {
	strategy := r.selectStrategy(req)
	if strategy == nil {
		return nil, fmt.Errorf("no resolver strategy supports request: %w", ErrMissingIdentity)
	}

	partyID, ok := strategy.PartyID(req)
	if !ok || partyID == uuid.Nil {
		return nil, ErrMissingIdentity
	}

	tenantID, err := r.resolveTenant(ctx, strategy, req, partyID)
	if err != nil {
		return nil, err
	}

	if contractID == nil {
		if id, ok := strategy.ContractID(req); ok {
			contractID = &id
		}
	}
	if productID == nil {
		if id, ok := strategy.ProductID(req); ok {
			productID = &id
		}
	}

	rec, err := r.sessions.LookupSession(ctx, partyID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("session lookup for party %s: %w", partyID, err)
	}

	roles := session.ExtractRoles(rec, contractID, productID)
	permissions := session.ExtractPermissions(rec, contractID, productID)

	r.log.WithFields(logrus.Fields{
		"party_id":    partyID,
		"tenant_id":   tenantID,
		"contract_id": contractID,
		"product_id":  productID,
		"roles":       len(roles),
		"permissions": len(permissions),
	}).Debug("resolved execution context")

	return New(partyID, tenantID).
		WithScope(contractID, productID).
		WithGrants(roles, permissions), nil
}

func (r *Resolver) selectStrategy(req *http.Request) Strategy {
	for _, s := range r.strategies {
		if s.Supports(req) {
			return s.Strategy
		}
	}
	return nil
}

func (r *Resolver) resolveTenant(ctx context.Context, s Strategy, req *http.Request, partyID uuid.UUID) (uuid.UUID, error) {
	if tenantID, ok := s.TenantID(req); ok && tenantID != uuid.Nil {
		return tenantID, nil
	}
	if r.tenants == nil {
		return uuid.Nil, ErrMissingTenant
	}
	tenantID, err := r.tenants.LookupTenant(ctx, partyID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant lookup for party %s failed: %w", partyID, ErrMissingTenant)
	}
	if tenantID == uuid.Nil {
		return uuid.Nil, ErrMissingTenant
	}
	return tenantID, nil
}
