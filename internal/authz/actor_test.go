package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolvePermissions_Admin(t *testing.T) {
	perms := ResolvePermissions(true, []string{PermProjectsView})
	assert.Equal(t, []string{Wildcard}, perms)
}

func TestResolvePermissions_RoleKeys(t *testing.T) {
	keys := []string{PermProjectsView, PermTasksEdit}
	assert.Equal(t, keys, ResolvePermissions(false, keys))
}

func TestResolvePermissions_NoRole(t *testing.T) {
	perms := ResolvePermissions(false, nil)
	assert.NotNil(t, perms)
	assert.Empty(t, perms)
}

func TestHasPermission_AdminBypassesEverything(t *testing.T) {
	actor := &Actor{ID: uuid.New(), IsAdmin: true, Permissions: []string{Wildcard}}
	assert.True(t, HasPermission(actor, PermProjectsDelete))
	assert.True(t, HasPermission(actor, "some.unknown.key"))
}

func TestHasPermission_ExactKeyOnly(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{PermProjectsView, PermTasksEdit}}
	assert.True(t, HasPermission(actor, PermProjectsView))
	assert.True(t, HasPermission(actor, PermTasksEdit))
	assert.False(t, HasPermission(actor, PermProjectsEdit))
	// No prefix matching.
	assert.False(t, HasPermission(actor, "projects"))
}

func TestHasPermission_WildcardInRole(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{Wildcard}}
	assert.True(t, HasPermission(actor, PermPaymentsManage))
}

func TestHasPermission_EmptySetDeniesAll(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{}}
	assert.False(t, HasPermission(actor, PermProjectsView))
	assert.False(t, HasPermission(actor, PermTasksView))
}

func TestRequirePermission_ErrorCarriesKey(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{}}
	err := RequirePermission(actor, PermPaymentsManage)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), PermPaymentsManage)
}
