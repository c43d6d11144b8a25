package security

import (
	"strings"
	"sync"
)

// EndpointKey identifies one operation: an exact path pattern (route
// template, e.g. "/contracts/{contractId}/balance") and an upper-case verb.
type EndpointKey struct {
	Path string
	Verb string
}

// Registry is the process-wide table of explicit per-operation security
// requirements. An entry here always wins over a declarative requirement for
// the same (path, verb); the two are never merged.
//
// The registry does exact key lookup only. Matching concrete request paths
// against route templates is the caller's job (the router already knows
// which template matched).
//
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[EndpointKey]*Requirement
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[EndpointKey]*Requirement)}
}

// Register sets the requirement for (path, verb), replacing any previous
// entry. The requirement is copied; later mutation by the caller has no
// effect on the registry.
func (r *Registry) Register(path, verb string, req *Requirement) {
	key := newKey(path, verb)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = req.clone()
}

// Unregister removes the entry for (path, verb), if any.
func (r *Registry) Unregister(path, verb string) {
	key := newKey(path, verb)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Get returns the requirement registered for (path, verb). The returned
// value is a copy.
func (r *Registry) Get(path, verb string) (*Requirement, bool) {
	key := newKey(path, verb)
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return req.clone(), true
}

// IsRegistered reports whether (path, verb) has an entry.
func (r *Registry) IsRegistered(path, verb string) bool {
	key := newKey(path, verb)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[EndpointKey]*Requirement)
}

// All returns a snapshot of every entry. Mutating the snapshot does not
// affect the registry.
func (r *Registry) All() map[EndpointKey]*Requirement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[EndpointKey]*Requirement, len(r.entries))
	for k, v := range r.entries {
		out[k] = v.clone()
	}
	return out
}

// RequirementFor resolves the precedence between a registry entry and the
// operation's declarative requirement: the registry always wins, the
// declarative requirement is the fallback, and the absence of both is a
// default deny. The fallback order is a first-class value so callers and
// tests can rely on it directly.
func (r *Registry) RequirementFor(path, verb string, declarative *Requirement) (*Requirement, Source) {
	if req, ok := r.Get(path, verb); ok {
		return req, SourceRegistry
	}
	if declarative != nil {
		return declarative.clone(), SourceDeclarative
	}
	return nil, SourceDefaultDeny
}

func newKey(path, verb string) EndpointKey {
	return EndpointKey{Path: path, Verb: strings.ToUpper(verb)}
}
