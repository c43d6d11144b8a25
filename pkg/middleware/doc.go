// Package middleware wires context resolution and authorization into a
// gorilla/mux request pipeline. It is deliberately thin: the resolution and
// decision logic lives in pkg/appctx and pkg/security; this package only
// moves request attributes in and verdicts out.
//
//	router := mux.NewRouter()
//	resolve := middleware.NewContextMiddleware(resolver, logger, metrics)
//	secure := middleware.NewSecureMiddleware(engine, registry, logger)
//
//	router.Handle("/contracts/{contractId}/balance",
//		resolve.Handler(secure.RequireRoles("owner")(balanceHandler)),
//	).Methods("GET")
//
// ContextMiddleware reads the contract/product scope from the matched
// route's path variables and rejects malformed IDs before resolution.
// SecureMiddleware looks the matched route template up in the security
// registry, falls back to the route's declarative requirement, and turns
// denials into 401/403 JSON responses carrying the engine's reason.
package middleware
