// Package appctx resolves the execution context for inbound operations in a
// multi-tenant service: who is calling, under which tenant, scoped to which
// contract and product, holding which roles and permissions.
//
// # Resolution Protocol
//
// Every resolution follows the same four steps:
//
//  1. Extract the party identity from a trusted request attribute.
//  2. Resolve the tenant, either from a trusted attribute or by a one-hop
//     TenantDirectory lookup keyed by party. Callers never self-declare it.
//  3. Adopt the contract/product scope supplied explicitly by the invoking
//     layer. Strategies may fill a missing scope from their own trusted
//     attributes but never override an explicit value.
//  4. Enrich with roles and permissions derived from the SessionSource
//     snapshot at exactly that scope.
//
// Strategies differ only in steps 1 and 2. Registered strategies are scanned
// in descending priority, ties kept in registration order, and the first one
// whose Supports returns true is used:
//
//	resolver := appctx.NewResolver(tenants, sessions, logger)
//	resolver.Register(appctx.NewClaimsStrategy(10))
//	resolver.Register(appctx.NewHeaderStrategy(0))
//
//	ec, err := resolver.Resolve(ctx, req, contractID, nil)
//	switch {
//	case errors.Is(err, appctx.ErrMissingIdentity):
//		// 401-equivalent
//	case errors.Is(err, appctx.ErrMissingTenant):
//		// 400-equivalent
//	}
//
// # Immutability
//
// Context values are immutable; enrichment produces new instances. Because
// grants are only meaningful at the scope they were derived for, WithScope
// clears the role and permission sets and the resolver re-derives them.
//
// Resolution failures abort fast with a sentinel error and never return a
// partial context. Authorization of the resolved context lives in
// pkg/security.
package appctx
