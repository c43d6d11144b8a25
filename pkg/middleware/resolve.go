package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/harborbank/appcontext/pkg/appctx"
	"github.com/harborbank/appcontext/pkg/contextkeys"
	"github.com/harborbank/appcontext/pkg/httputil"
	"github.com/harborbank/appcontext/pkg/observability"
)

// Route variable names recognized as explicit scoping identifiers.
const (
	VarContractID = "contractId"
	VarProductID  = "productId"
)

// ContextMiddleware resolves the execution context for every request and
// injects it into the request context. Contract and product IDs are taken
// from the matched route's path variables, so the invoking layer, not the
// resolver, decides the scope.
type ContextMiddleware struct {
	resolver *appctx.Resolver
	log      *logrus.Logger
	metrics  *observability.Metrics
}

// NewContextMiddleware creates the resolution middleware. metrics may be nil.
func NewContextMiddleware(resolver *appctx.Resolver, log *logrus.Logger, metrics *observability.Metrics) *ContextMiddleware {
	if log == nil {
		log = logrus.New()
	}
	return &ContextMiddleware{
		resolver: resolver,
		log:      log,
		metrics:  metrics,
	}
}

// Handler wraps an HTTP handler with context resolution.
func (m *ContextMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		contractID, ok := scopeVar(vars, VarContractID)
		if !ok {
			httputil.WriteBadRequest(w, "invalid contract ID")
			return
		}
		productID, ok := scopeVar(vars, VarProductID)
		if !ok {
			httputil.WriteBadRequest(w, "invalid product ID")
			return
		}

		start := time.Now()
		ec, err := m.resolver.Resolve(r.Context(), r, contractID, productID)
		if err != nil {
			m.metrics.RecordResolution("failure", time.Since(start))
			m.writeResolutionError(w, r, err)
			return
		}
		m.metrics.RecordResolution("success", time.Since(start))

		ctx := contextkeys.WithExecutionContext(r.Context(), ec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ContextMiddleware) writeResolutionError(w http.ResponseWriter, r *http.Request, err error) {
	m.log.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
	}).WithError(err).Warn("context resolution failed")

	switch {
	case errors.Is(err, appctx.ErrMissingIdentity):
		httputil.WriteUnauthorized(w, "missing identity")
	case errors.Is(err, appctx.ErrMissingTenant):
		httputil.WriteBadRequest(w, "missing tenant")
	default:
		httputil.WriteInternalError(w, err)
	}
}

// GetExecutionContext extracts the resolved execution context from a
// request, or nil when resolution did not run.
func GetExecutionContext(r *http.Request) *appctx.Context {
	ec, ok := r.Context().Value(contextkeys.ExecutionContextKey).(*appctx.Context)
	if !ok {
		return nil
	}
	return ec
}

func scopeVar(vars map[string]string, name string) (*uuid.UUID, bool) {
	raw, ok := vars[name]
	if !ok || raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
