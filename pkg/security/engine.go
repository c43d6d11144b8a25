package security

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/harborbank/appcontext/pkg/appctx"
	"github.com/harborbank/appcontext/pkg/observability"
)

// ExternalEvaluator is an optional policy service the engine can delegate
// full decisions to (ABAC, policy-language rules, audit-trailed decisions).
// Only the interface is defined here; the evaluation semantics belong to the
// implementation.
type ExternalEvaluator interface {
	EvaluatePolicy(ctx context.Context, ec *appctx.Context, req *Requirement) (*Verdict, error)
}

// Engine evaluates a security requirement against a resolved execution
// context. It performs no caching: context and requirement can both change
// legitimately between calls, so every decision is computed fresh.
type Engine struct {
	evaluator ExternalEvaluator
	log       *logrus.Logger
	metrics   *observability.Metrics
}

// NewEngine creates a decision engine. evaluator and metrics may be nil;
// without an evaluator the engine decides everything itself.
func NewEngine(evaluator ExternalEvaluator, log *logrus.Logger, metrics *observability.Metrics) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		evaluator: evaluator,
		log:       log,
		metrics:   metrics,
	}
}

// Authorize decides whether the context satisfies the requirement.
//
// source is the provenance the caller determined via
// Registry.RequirementFor; it is carried into the verdict unchanged unless
// the external evaluator decided.
//
// Denials are ordinary return values, never errors: the caller turns them
// into a structured response and logs them with full context identifiers.
func (e *Engine) Authorize(ctx context.Context, ec *appctx.Context, req *Requirement, source Source) *Verdict {
	verdict := e.evaluate(ctx, ec, req, source)
	e.metrics.RecordAuthzDecision(string(verdict.Source), verdict.Granted, verdict.Reason)

	if !verdict.Granted {
		fields := logrus.Fields{
			"source": verdict.Source,
			"reason": verdict.Reason,
		}
		if ec != nil {
			fields["party_id"] = ec.PartyID()
			fields["tenant_id"] = ec.TenantID()
			fields["contract_id"] = ec.ContractID()
			fields["product_id"] = ec.ProductID()
		}
		e.log.WithFields(fields).Info("authorization denied")
	}
	return verdict
}

func (e *Engine) evaluate(ctx context.Context, ec *appctx.Context, req *Requirement, source Source) *Verdict {
	if req == nil {
		return &Verdict{Granted: false, Reason: ReasonDefaultDeny, Source: SourceDefaultDeny}
	}

	if req.AllowAnonymous {
		return &Verdict{Granted: true, Requirement: req.clone(), Source: source}
	}

	if req.RequireAuthentication && !ec.Authenticated() {
		return &Verdict{Granted: false, Reason: ReasonUnauthenticated, Requirement: req.clone(), Source: source}
	}

	// Extension point: a configured evaluator takes the full decision and
	// its verdict is adopted verbatim.
	if e.evaluator != nil {
		return e.delegate(ctx, ec, req)
	}

	if len(req.Roles) > 0 && !matches(req.Roles, req.RequireAllRoles, ec.HasRole) {
		return &Verdict{Granted: false, Reason: ReasonRoleMismatch, Requirement: req.clone(), Source: source}
	}

	if len(req.Permissions) > 0 && !matches(req.Permissions, req.RequireAllPermissions, ec.HasPermission) {
		return &Verdict{Granted: false, Reason: ReasonPermissionMismatch, Requirement: req.clone(), Source: source}
	}

	return &Verdict{Granted: true, Requirement: req.clone(), Source: source}
}

func (e *Engine) delegate(ctx context.Context, ec *appctx.Context, req *Requirement) *Verdict {
	verdict, err := e.evaluator.EvaluatePolicy(ctx, ec, req)
	if err != nil {
		// Evaluator failures deny rather than error so authorization stays
		// value-typed for callers.
		e.log.WithError(err).Warn("external policy evaluation failed")
		return &Verdict{
			Granted:     false,
			Reason:      "external evaluation failed: " + err.Error(),
			Requirement: req.clone(),
			Source:      SourceExternalEvaluator,
		}
	}
	verdict.Source = SourceExternalEvaluator
	return verdict
}

// matches applies AND/OR set semantics: with requireAll every required entry
// must be held, otherwise one held entry suffices.
func matches(required []string, requireAll bool, has func(string) bool) bool {
	if requireAll {
		for _, want := range required {
			if !has(want) {
				return false
			}
		}
		return true
	}
	for _, want := range required {
		if has(want) {
			return true
		}
	}
	return false
}
