package security

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterGet(t *testing.T) {
	r := NewRegistry()
	req := &Requirement{Roles: []string{"owner"}}

	r.Register("/contracts/{contractId}", "GET", req)

	got, ok := r.Get("/contracts/{contractId}", "GET")
	require.True(t, ok)
	assert.Equal(t, []string{"owner"}, got.Roles)

	assert.True(t, r.IsRegistered("/contracts/{contractId}", "GET"))
	assert.False(t, r.IsRegistered("/contracts/{contractId}", "POST"))
	assert.False(t, r.IsRegistered("/other", "GET"))
}

func TestRegistryVerbCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register("/x", "get", &Requirement{AllowAnonymous: true})

	assert.True(t, r.IsRegistered("/x", "GET"))
	_, ok := r.Get("/x", "Get")
	assert.True(t, ok)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("/x", "GET", &Requirement{})
	r.Unregister("/x", "GET")
	assert.False(t, r.IsRegistered("/x", "GET"))

	// Unregistering an absent key is a no-op.
	r.Unregister("/x", "GET")
}

func TestRegistryClearAndAll(t *testing.T) {
	r := NewRegistry()
	r.Register("/a", "GET", &Requirement{Roles: []string{"viewer"}})
	r.Register("/b", "POST", &Requirement{Permissions: []string{"p"}})

	all := r.All()
	assert.Len(t, all, 2)
	assert.Contains(t, all, EndpointKey{Path: "/a", Verb: "GET"})

	// The snapshot is detached.
	delete(all, EndpointKey{Path: "/a", Verb: "GET"})
	assert.True(t, r.IsRegistered("/a", "GET"))

	r.Clear()
	assert.Empty(t, r.All())
}

func TestRegistryCopiesRequirements(t *testing.T) {
	r := NewRegistry()
	req := &Requirement{Roles: []string{"owner"}}
	r.Register("/x", "GET", req)

	// Mutating the caller's requirement must not leak into the registry.
	req.Roles[0] = "intruder"

	got, ok := r.Get("/x", "GET")
	require.True(t, ok)
	assert.Equal(t, []string{"owner"}, got.Roles)

	// Mutating a returned copy must not leak either.
	got.Roles[0] = "intruder"
	again, _ := r.Get("/x", "GET")
	assert.Equal(t, []string{"owner"}, again.Roles)
}

func TestRequirementForPrecedence(t *testing.T) {
	r := NewRegistry()
	declarative := &Requirement{Roles: []string{"declared"}}

	// No registry entry: declarative wins.
	req, source := r.RequirementFor("/x", "GET", declarative)
	require.NotNil(t, req)
	assert.Equal(t, SourceDeclarative, source)
	assert.Equal(t, []string{"declared"}, req.Roles)

	// Registry entry always wins, no merging.
	r.Register("/x", "GET", &Requirement{Roles: []string{"registered"}})
	req, source = r.RequirementFor("/x", "GET", declarative)
	require.NotNil(t, req)
	assert.Equal(t, SourceRegistry, source)
	assert.Equal(t, []string{"registered"}, req.Roles)

	// Neither: default deny.
	req, source = r.RequirementFor("/y", "GET", nil)
	assert.Nil(t, req)
	assert.Equal(t, SourceDefaultDeny, source)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(3)
		path := fmt.Sprintf("/endpoint/%d", i)
		go func() {
			defer wg.Done()
			r.Register(path, "GET", &Requirement{Roles: []string{"owner"}})
		}()
		go func() {
			defer wg.Done()
			r.Get(path, "GET")
			r.IsRegistered(path, "GET")
			r.All()
		}()
		go func() {
			defer wg.Done()
			r.Unregister(path, "GET")
		}()
	}
	wg.Wait()
}
