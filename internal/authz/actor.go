// Package authz holds the authorization core: the permission evaluator, the
// project access-scoping rule and the project lock check. Everything here is
// a pure predicate over values resolved at the auth boundary; no store
// access happens inside this package.
package authz

import (
	"github.com/google/uuid"
)

// Wildcard grants every permission; it is the resolved set of admin actors.
const Wildcard = "*"

// Permission keys. The catalog seeded per tenant mirrors this list, but keys
// stay opaque strings: roles may carry keys the catalog never heard of.
const (
	PermProjectsView    = "projects.view"
	PermProjectsViewAll = "projects.view_all"
	PermProjectsCreate  = "projects.create"
	PermProjectsEdit    = "projects.edit"
	PermProjectsDelete  = "projects.delete"
	PermTasksView       = "tasks.view"
	PermTasksEdit       = "tasks.edit"
	PermPaymentsView    = "payments.view"
	PermPaymentsManage  = "payments.manage"
	PermSetupGroups     = "setup.groups"
	PermSetupSubtasks   = "setup.subtasks"
	PermSetupWorkItems  = "setup.workitems"
	PermSetupRoles      = "setup.roles"
	PermUsersView       = "users.view"
	PermUsersManage     = "users.manage"
	PermSettingsManage  = "settings.manage"
	PermFilesUpload     = "files.upload"
	PermFilesDelete     = "files.delete"
)

// Actor is the authenticated caller with its permission set resolved once at
// session establishment: {"*"} for admins, the role's key list otherwise,
// empty without a role. It is passed explicitly through every core call.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsAdmin     bool      `json:"is_admin"`
	Permissions []string  `json:"permissions"`
}

// ResolvePermissions computes the actor's permission set at the auth
// boundary.
func ResolvePermissions(isAdmin bool, roleKeys []string) []string {
	if isAdmin {
		return []string{Wildcard}
	}
	if roleKeys == nil {
		return []string{}
	}
	return roleKeys
}

// HasPermission reports whether the actor may perform the action guarded by
// key. Admins always pass; otherwise the resolved set must contain the
// wildcard or the exact key. No prefix matching, no inheritance.
func HasPermission(actor *Actor, key string) bool {
	if actor.IsAdmin {
		return true
	}
	for _, p := range actor.Permissions {
		if p == Wildcard || p == key {
			return true
		}
	}
	return false
}

// RequirePermission signals Forbidden when the check fails. Callers must not
// proceed past a non-nil return.
func RequirePermission(actor *Actor, key string) error {
	if HasPermission(actor, key) {
		return nil
	}
	return &PermissionError{Key: key}
}
