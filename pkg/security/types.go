package security

// Source identifies where the evaluated requirement came from.
type Source string

const (
	// SourceDeclarative is a requirement attached to the operation itself.
	SourceDeclarative Source = "declarative"

	// SourceRegistry is an explicit registry entry for the operation's
	// (path, verb). Registry entries always win over declarative ones.
	SourceRegistry Source = "registry"

	// SourceExternalEvaluator marks a verdict adopted from the external
	// policy evaluator.
	SourceExternalEvaluator Source = "external-evaluator"

	// SourceDefaultDeny marks the absence of any requirement.
	SourceDefaultDeny Source = "default-deny"
)

// Denial reasons surfaced verbatim to callers so they can produce a
// structured response without reconstructing the cause.
const (
	ReasonUnauthenticated    = "Unauthenticated"
	ReasonRoleMismatch       = "RoleMismatch"
	ReasonPermissionMismatch = "PermissionMismatch"
	ReasonDefaultDeny        = "DefaultDeny"
)

// Requirement declares what an operation demands from the execution context.
// The zero value requires nothing and denies nobody; it grants.
type Requirement struct {
	// Roles the caller must hold. RequireAllRoles selects AND semantics
	// (every listed role) over the default OR (any listed role).
	Roles           []string `json:"roles,omitempty"`
	RequireAllRoles bool     `json:"require_all_roles,omitempty"`

	// Permissions the caller must hold, with the same AND/OR selection.
	Permissions           []string `json:"permissions,omitempty"`
	RequireAllPermissions bool     `json:"require_all_permissions,omitempty"`

	// AllowAnonymous grants unconditionally, bypassing every other check.
	AllowAnonymous bool `json:"allow_anonymous,omitempty"`

	// RequireAuthentication denies requests without a resolved identity
	// before any role or permission matching.
	RequireAuthentication bool `json:"require_authentication,omitempty"`
}

// clone returns a deep copy so registry readers and verdicts never alias the
// caller's slices.
func (r *Requirement) clone() *Requirement {
	if r == nil {
		return nil
	}
	out := *r
	if r.Roles != nil {
		out.Roles = append([]string(nil), r.Roles...)
	}
	if r.Permissions != nil {
		out.Permissions = append([]string(nil), r.Permissions...)
	}
	return &out
}

// Verdict is the outcome of one authorization evaluation.
type Verdict struct {
	// Granted reports whether the operation is permitted.
	Granted bool `json:"granted"`

	// Reason is present iff not granted.
	Reason string `json:"reason,omitempty"`

	// Requirement is the requirement that was evaluated, nil for
	// default-deny.
	Requirement *Requirement `json:"requirement,omitempty"`

	// Source reports which source produced the requirement.
	Source Source `json:"source"`
}
