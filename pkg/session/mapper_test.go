package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractOne = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	contractTwo = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	productOne  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	productTwo  = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func sampleRecord() *Record {
	return &Record{
		PartyID:  uuid.New(),
		TenantID: uuid.New(),
		Contracts: []ContractMembership{
			{
				ContractID: contractOne,
				Active:     true,
				Role: &RoleGrant{
					RoleCode: "owner",
					Active:   true,
					Scopes: []ActionScope{
						{ActionType: "READ", ResourceType: "BALANCE", Active: true},
					},
				},
			},
			{
				ContractID: contractTwo,
				Active:     true,
				Product:    &ProductRef{ProductID: productOne, Name: "checking"},
				Role: &RoleGrant{
					RoleCode: "account_viewer",
					Active:   true,
					Scopes: []ActionScope{
						{ActionType: "READ", ResourceType: "TRANSACTION", Active: true},
						{ActionType: "WRITE", ResourceType: "TRANSACTION", Active: false},
					},
				},
			},
			{
				// Inactive membership must never contribute.
				ContractID: contractTwo,
				Active:     false,
				Role: &RoleGrant{
					RoleCode: "ghost",
					Active:   true,
					Scopes: []ActionScope{
						{ActionType: "DELETE", ResourceType: "ACCOUNT", Active: true},
					},
				},
			},
		},
	}
}

func TestExtractRoles(t *testing.T) {
	rec := sampleRecord()

	tests := []struct {
		name       string
		contractID *uuid.UUID
		productID  *uuid.UUID
		expected   []string
	}{
		{
			name:     "party level aggregates all active contracts",
			expected: []string{"owner", "account_viewer"},
		},
		{
			name:       "contract scope",
			contractID: &contractOne,
			expected:   []string{"owner"},
		},
		{
			name:       "contract with no membership",
			contractID: uuidPtr(uuid.MustParse("33333333-3333-3333-3333-333333333333")),
			expected:   nil,
		},
		{
			name:       "contract and product scope",
			contractID: &contractTwo,
			productID:  &productOne,
			expected:   []string{"account_viewer"},
		},
		{
			name:       "product scope excludes memberships without product",
			contractID: &contractOne,
			productID:  &productOne,
			expected:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := ExtractRoles(rec, tt.contractID, tt.productID)
			assert.Len(t, roles, len(tt.expected))
			for _, r := range tt.expected {
				assert.Contains(t, roles, r)
			}
		})
	}
}

func TestExtractPermissionsFormat(t *testing.T) {
	rec := sampleRecord()

	perms := ExtractPermissions(rec, &contractOne, nil)
	require.Len(t, perms, 1)
	assert.Contains(t, perms, "owner:READ:BALANCE")

	// Inactive action scopes are dropped.
	perms = ExtractPermissions(rec, &contractTwo, nil)
	require.Len(t, perms, 1)
	assert.Contains(t, perms, "account_viewer:READ:TRANSACTION")
}

func TestExtractPermissionsUnknownRole(t *testing.T) {
	rec := &Record{Contracts: []ContractMembership{{
		ContractID: contractOne,
		Active:     true,
		Role: &RoleGrant{
			Active: true,
			Scopes: []ActionScope{
				{ActionType: "READ", ResourceType: "BALANCE", Active: true},
			},
		},
	}}}

	perms := ExtractPermissions(rec, nil, nil)
	require.Len(t, perms, 1)
	assert.Contains(t, perms, "unknown:READ:BALANCE")
}

func TestScopedViewIsSubsetOfAggregate(t *testing.T) {
	rec := sampleRecord()
	all := ExtractRoles(rec, nil, nil)

	for _, contractID := range []uuid.UUID{contractOne, contractTwo} {
		scoped := ExtractRoles(rec, &contractID, nil)
		for role := range scoped {
			assert.Contains(t, all, role)
		}
	}

	allPerms := ExtractPermissions(rec, nil, nil)
	scopedPerms := ExtractPermissions(rec, &contractTwo, &productOne)
	for p := range scopedPerms {
		assert.Contains(t, allPerms, p)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	rec := sampleRecord()

	first := ExtractRoles(rec, nil, nil)
	second := ExtractRoles(rec, nil, nil)
	assert.Equal(t, first, second)

	firstPerms := ExtractPermissions(rec, &contractTwo, &productOne)
	secondPerms := ExtractPermissions(rec, &contractTwo, &productOne)
	assert.Equal(t, firstPerms, secondPerms)
}

func TestExtractNilSession(t *testing.T) {
	assert.Empty(t, ExtractRoles(nil, nil, nil))
	assert.Empty(t, ExtractPermissions(nil, nil, nil))
}

func TestInactiveRoleGrantExcluded(t *testing.T) {
	rec := &Record{Contracts: []ContractMembership{{
		ContractID: contractOne,
		Active:     true,
		Role: &RoleGrant{
			RoleCode: "owner",
			Active:   false,
			Scopes: []ActionScope{
				{ActionType: "READ", ResourceType: "BALANCE", Active: true},
			},
		},
	}}}

	assert.Empty(t, ExtractRoles(rec, nil, nil))
	assert.Empty(t, ExtractPermissions(rec, nil, nil))
}

func TestHasProductAccess(t *testing.T) {
	rec := sampleRecord()

	assert.True(t, HasProductAccess(rec, productOne))
	assert.False(t, HasProductAccess(rec, productTwo))
	assert.False(t, HasProductAccess(nil, productOne))
}

func TestHasPermission(t *testing.T) {
	rec := sampleRecord()

	tests := []struct {
		name     string
		product  uuid.UUID
		action   string
		resource string
		expected bool
	}{
		{"exact match", productOne, "READ", "TRANSACTION", true},
		{"case insensitive", productOne, "read", "transaction", true},
		{"any resource", productOne, "READ", "", true},
		{"inactive scope", productOne, "WRITE", "TRANSACTION", false},
		{"unknown product", productTwo, "READ", "TRANSACTION", false},
		{"empty action", productOne, "", "TRANSACTION", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasPermission(rec, tt.product, tt.action, tt.resource))
		})
	}
}
