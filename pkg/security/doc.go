// Package security decides whether a resolved execution context is allowed
// to perform an operation.
//
// # Requirement Sources
//
// A requirement reaches the engine from one of two sources: a declarative
// requirement attached to the operation, or an explicit entry in the
// Registry keyed by (path pattern, verb). When both exist the registry entry
// always wins; the two are never merged. Registry.RequirementFor performs
// that precedence resolution and reports the winning source:
//
//	req, source := registry.RequirementFor("/contracts/{contractId}/balance", "GET", declarative)
//	verdict := engine.Authorize(ctx, ec, req, source)
//
// # Evaluation
//
// AllowAnonymous grants unconditionally. RequireAuthentication denies
// unidentified callers with reason Unauthenticated. Otherwise the role set
// and the permission set are each matched against the context with their own
// AND/OR mode, and both must pass; failures carry reason RoleMismatch or
// PermissionMismatch. No requirement at all is a default deny.
//
// A configured ExternalEvaluator takes over the full decision (after the
// anonymous bypass and authentication check) and its verdict is adopted
// verbatim. This is an extension point for policy-based authorization, not
// the default path.
//
// Denials are values, not errors, and always carry a specific reason so the
// caller can log and respond without reconstructing the cause. The engine
// caches nothing.
package security
