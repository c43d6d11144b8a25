package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/harborbank/appcontext/pkg/httputil"
	"github.com/harborbank/appcontext/pkg/security"
)

// SecureMiddleware authorizes requests against the security registry and a
// per-route declarative requirement. The registry is consulted with the
// matched route template, so an entry registered for
// "/contracts/{contractId}/balance" overrides the declarative requirement of
// that route for every concrete path it matches.
type SecureMiddleware struct {
	engine   *security.Engine
	registry *security.Registry
	log      *logrus.Logger
}

// NewSecureMiddleware creates the authorization middleware.
func NewSecureMiddleware(engine *security.Engine, registry *security.Registry, log *logrus.Logger) *SecureMiddleware {
	if log == nil {
		log = logrus.New()
	}
	return &SecureMiddleware{
		engine:   engine,
		registry: registry,
		log:      log,
	}
}

// Require wraps a handler with an authorization check against the given
// declarative requirement. A registry entry for the same (route template,
// verb) always takes precedence.
func (m *SecureMiddleware) Require(declarative *security.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, source := m.registry.RequirementFor(routeTemplate(r), r.Method, declarative)

			verdict := m.engine.Authorize(r.Context(), GetExecutionContext(r), req, source)
			if !verdict.Granted {
				if verdict.Reason == security.ReasonUnauthenticated {
					httputil.WriteUnauthorized(w, "authentication required")
					return
				}
				httputil.WriteForbidden(w, verdict.Reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles is shorthand for a requirement accepting any of the given
// roles and demanding an authenticated caller.
func (m *SecureMiddleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return m.Require(&security.Requirement{
		Roles:                 roles,
		RequireAuthentication: true,
	})
}

// routeTemplate returns the matched mux route template, falling back to the
// concrete path when the request was not routed through mux.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
