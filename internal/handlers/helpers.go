package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/middleware"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

// mustActor pulls the resolved actor from the context. A missing actor
// means the route was wired without RequireAuth; respond 401 and bail.
func mustActor(c *gin.Context) *authz.Actor {
	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "Authentication required")
		c.Abort()
		return nil
	}
	return actor
}

// parseUUIDParam parses a path parameter as a uuid, responding 400 on
// malformed input.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// findProject loads a tenant-scoped project. Tenant mismatch surfaces as
// not-found so nothing leaks across tenants.
func findProject(db *gorm.DB, tenantID, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.Where("id = ? AND tenant_id = ?", projectID, tenantID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// findArea loads an area scoped to its project and tenant.
func findArea(db *gorm.DB, tenantID, projectID, areaID uuid.UUID) (*models.Area, error) {
	var area models.Area
	err := db.Where("id = ? AND project_id = ? AND tenant_id = ?", areaID, projectID, tenantID).First(&area).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// actorAssignments fetches the actor's own assignment rows for a project.
func actorAssignments(db *gorm.DB, actor *authz.Actor, projectID uuid.UUID) []models.Assignment {
	var assignments []models.Assignment
	db.Where("project_id = ? AND user_id = ? AND tenant_id = ?", projectID, actor.ID, actor.TenantID).
		Find(&assignments)
	return assignments
}

// requireProjectAccess applies the access-scoping rule and responds 403 on
// denial. Returns false when the caller must stop.
func requireProjectAccess(c *gin.Context, db *gorm.DB, actor *authz.Actor, project *models.Project, areaID *uuid.UUID) bool {
	assignments := actorAssignments(db, actor, project.ID)
	if !authz.CanAccessProject(actor, project, assignments, areaID) {
		utils.ForbiddenResponse(c, "You do not have access to this project")
		return false
	}
	return true
}

// requirePermission responds 403 with the missing key on failure.
func requirePermission(c *gin.Context, actor *authz.Actor, key string) bool {
	if err := authz.RequirePermission(actor, key); err != nil {
		utils.ForbiddenResponse(c, err.Error())
		return false
	}
	return true
}

// respondLockError maps a lock violation onto the wire: a completed project
// is an invalid-state 400, a stopped project a 403.
func respondLockError(c *gin.Context, err error) {
	var lockErr *authz.LockError
	if errors.As(err, &lockErr) && !lockErr.Completed {
		utils.ForbiddenResponse(c, lockErr.Error())
		return
	}
	utils.BadRequestResponse(c, err.Error())
}

// isDuplicateKeyError detects unique-constraint violations from postgres.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
