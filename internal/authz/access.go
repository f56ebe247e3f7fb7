package authz

import (
	"github.com/google/uuid"

	"github.com/craftforge/craftforge/internal/models"
)

// CanAccessProject decides whether the actor may view a project. Assignments
// must be the actor's own assignment rows for this project; the caller
// fetches them. areaID narrows the question to one area when non-nil.
//
// Grants, in order: admin, projects.view_all (or wildcard), a project-scope
// assignment, an area-scope assignment matching the queried area, or
// creatorship.
func CanAccessProject(actor *Actor, project *models.Project, assignments []models.Assignment, areaID *uuid.UUID) bool {
	if actor.IsAdmin {
		return true
	}
	if HasPermission(actor, PermProjectsViewAll) {
		return true
	}
	for _, a := range assignments {
		if a.ProjectID != project.ID || a.UserID != actor.ID {
			continue
		}
		if a.Type == models.AssignmentProject {
			return true
		}
		if a.Type == models.AssignmentArea && areaID != nil && a.AreaID != nil && *a.AreaID == *areaID {
			return true
		}
	}
	return project.CreatedBy == actor.ID
}

// CheckLock gates child mutations on a locked project. A completed project
// rejects everyone; a stopped project rejects non-admins. Advisory only: a
// nil project is a no-op, existence is the mutating operation's problem.
//
// Project status transitions themselves are exempt when performed by an
// admin; that is how a locked project gets reopened.
func CheckLock(project *models.Project, actor *Actor) error {
	if project == nil {
		return nil
	}
	switch project.Status {
	case models.StatusTamamlandi:
		return errProjectCompleted
	case models.StatusDurduruldu:
		if !actor.IsAdmin {
			return errProjectStopped
		}
	}
	return nil
}
