package appctx

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextImmutability(t *testing.T) {
	party := uuid.New()
	tenant := uuid.New()
	contract := uuid.New()

	base := New(party, tenant)
	scoped := base.WithScope(&contract, nil)
	granted := scoped.WithGrants(
		map[string]struct{}{"owner": {}},
		map[string]struct{}{"owner:READ:BALANCE": {}},
	)

	// Each step produced a distinct value; earlier ones are untouched.
	assert.Nil(t, base.ContractID())
	assert.False(t, base.HasRole("owner"))
	assert.False(t, scoped.HasRole("owner"))
	assert.True(t, granted.HasRole("owner"))
	assert.True(t, granted.HasPermission("owner:READ:BALANCE"))

	require.NotNil(t, granted.ContractID())
	assert.Equal(t, contract, *granted.ContractID())
	assert.Equal(t, party, granted.PartyID())
	assert.Equal(t, tenant, granted.TenantID())
}

func TestWithScopeDropsGrants(t *testing.T) {
	contract := uuid.New()
	product := uuid.New()

	ec := New(uuid.New(), uuid.New()).
		WithGrants(map[string]struct{}{"owner": {}}, map[string]struct{}{"p": {}})
	require.True(t, ec.HasRole("owner"))

	rescoped := ec.WithScope(&contract, &product)
	assert.Empty(t, rescoped.Roles())
	assert.Empty(t, rescoped.Permissions())
	require.NotNil(t, rescoped.ProductID())
	assert.Equal(t, product, *rescoped.ProductID())
}

func TestWithGrantsCopiesInput(t *testing.T) {
	roles := map[string]struct{}{"owner": {}}
	ec := New(uuid.New(), uuid.New()).WithGrants(roles, nil)

	roles["intruder"] = struct{}{}
	assert.False(t, ec.HasRole("intruder"))

	// Accessor copies are detached too.
	set := ec.RoleSet()
	set["other"] = struct{}{}
	assert.False(t, ec.HasRole("other"))
}

func TestRolesSorted(t *testing.T) {
	ec := New(uuid.New(), uuid.New()).WithGrants(
		map[string]struct{}{"viewer": {}, "admin": {}, "owner": {}}, nil)
	assert.Equal(t, []string{"admin", "owner", "viewer"}, ec.Roles())
}

func TestWithAttribute(t *testing.T) {
	ec := New(uuid.New(), uuid.New())
	with := ec.WithAttribute("channel", "mobile")

	_, ok := ec.Attribute("channel")
	assert.False(t, ok)

	v, ok := with.Attribute("channel")
	require.True(t, ok)
	assert.Equal(t, "mobile", v)
}

func TestAuthenticated(t *testing.T) {
	assert.True(t, New(uuid.New(), uuid.New()).Authenticated())
	assert.False(t, New(uuid.Nil, uuid.New()).Authenticated())

	var nilCtx *Context
	assert.False(t, nilCtx.Authenticated())
}
