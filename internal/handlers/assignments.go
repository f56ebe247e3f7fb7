package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/utils"
)

type AssignmentCreateRequest struct {
	UserID uuid.UUID             `json:"user_id" binding:"required"`
	Type   models.AssignmentType `json:"assignment_type" binding:"required"`
	AreaID *uuid.UUID            `json:"area_id"`
}

// AssignmentView joins the assignment with the user's display fields.
type AssignmentView struct {
	models.Assignment
	UserName  string `json:"user_name"`
	UserColor string `json:"user_color,omitempty"`
	AreaName  string `json:"area_name,omitempty"`
}

func handleListAssignments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, nil) {
			return
		}

		var assignments []models.Assignment
		if err := db.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&assignments).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch assignments")
			return
		}

		users := map[uuid.UUID]models.User{}
		var userRows []models.User
		db.Where("tenant_id = ?", actor.TenantID).Find(&userRows)
		for _, u := range userRows {
			users[u.ID] = u
		}
		areaNames := map[uuid.UUID]string{}
		var areas []models.Area
		db.Where("project_id = ?", project.ID).Find(&areas)
		for _, a := range areas {
			areaNames[a.ID] = a.Name
		}

		views := make([]AssignmentView, 0, len(assignments))
		for _, a := range assignments {
			v := AssignmentView{Assignment: a}
			if u, ok := users[a.UserID]; ok {
				v.UserName = u.FullName
				v.UserColor = u.Color
			}
			if a.AreaID != nil {
				v.AreaName = areaNames[*a.AreaID]
			}
			views = append(views, v)
		}
		utils.OKResponse(c, "Assignments retrieved successfully", views)
	}
}

// isDuplicateAssignment reports whether the candidate (user, type, area)
// tuple already exists among the project's assignment rows. Two project-scope
// rows collide on their nil area ids.
func isDuplicateAssignment(existing []models.Assignment, userID uuid.UUID, assignmentType models.AssignmentType, areaID *uuid.UUID) bool {
	for _, a := range existing {
		if a.UserID != userID || a.Type != assignmentType {
			continue
		}
		if a.AreaID == nil && areaID == nil {
			return true
		}
		if a.AreaID != nil && areaID != nil && *a.AreaID == *areaID {
			return true
		}
	}
	return false
}

func handleCreateAssignment(db *gorm.DB, recorder *activity.Recorder, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermUsersManage) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, nil) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		var req AssignmentCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
		if req.Type != models.AssignmentProject && req.Type != models.AssignmentArea {
			utils.BadRequestResponse(c, "Invalid assignment type")
			return
		}
		if req.Type == models.AssignmentArea && req.AreaID == nil {
			utils.BadRequestResponse(c, "area_id is required for area assignments")
			return
		}
		if req.Type == models.AssignmentProject {
			req.AreaID = nil
		}

		var user models.User
		if err := db.Where("id = ? AND tenant_id = ?", req.UserID, actor.TenantID).First(&user).Error; err != nil {
			utils.NotFoundResponse(c, "User not found")
			return
		}

		scopeName := project.Name
		var area *models.Area
		if req.AreaID != nil {
			area, err = findArea(db, actor.TenantID, projectID, *req.AreaID)
			if err != nil {
				utils.NotFoundResponse(c, "Area not found")
				return
			}
			scopeName = area.Name
		}

		// The unique index treats null area_id values as distinct, so
		// project-scope duplicates must be caught here.
		var existing []models.Assignment
		db.Where("project_id = ? AND user_id = ?", project.ID, user.ID).Find(&existing)
		if isDuplicateAssignment(existing, user.ID, req.Type, req.AreaID) {
			utils.ConflictResponse(c, "This user already has this assignment")
			return
		}

		assignment := models.Assignment{
			ID:        uuid.New(),
			TenantID:  actor.TenantID,
			ProjectID: project.ID,
			UserID:    user.ID,
			Type:      req.Type,
			AreaID:    req.AreaID,
			CreatedBy: actor.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.Create(&assignment).Error; err != nil {
			if isDuplicateKeyError(err) {
				utils.ConflictResponse(c, "This user already has this assignment")
				return
			}
			utils.InternalServerErrorResponse(c, "Failed to create assignment")
			return
		}

		entry := activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			Action:      models.ActionStaffAssigned,
			Description: fmt.Sprintf("%s, '%s' kapsamına atandı", user.FullName, scopeName),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			Metadata:    models.Metadata{"user_id": user.ID.String(), "assignment_type": string(req.Type)},
		}
		if area != nil {
			entry.AreaID = &area.ID
			entry.AreaName = area.Name
		}
		recorder.Record(entry)

		if user.ID != actor.ID {
			notifier.Notify(user.ID, actor.TenantID,
				"Projeye Atandınız",
				fmt.Sprintf("'%s' projesinde '%s' kapsamına atandınız", project.Name, scopeName),
				"info",
				"/projects/"+project.ID.String(),
			)
		}

		utils.CreatedResponse(c, "Assignment created successfully", assignment)
	}
}

func handleDeleteAssignment(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		assignmentID, ok := parseUUIDParam(c, "assignmentId")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermUsersManage) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, nil) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		var assignment models.Assignment
		if err := db.Where("id = ? AND project_id = ?", assignmentID, project.ID).First(&assignment).Error; err != nil {
			utils.NotFoundResponse(c, "Assignment not found")
			return
		}
		if err := db.Delete(&assignment).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete assignment")
			return
		}

		var user models.User
		userName := "Bilinmeyen kullanıcı"
		if err := db.Where("id = ?", assignment.UserID).First(&user).Error; err == nil {
			userName = user.FullName
		}

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			AreaID:      assignment.AreaID,
			Action:      models.ActionStaffUnassigned,
			Description: fmt.Sprintf("%s kullanıcısının ataması kaldırıldı", userName),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			Metadata:    models.Metadata{"user_id": assignment.UserID.String(), "assignment_type": string(assignment.Type)},
		})

		utils.OKResponse(c, "Assignment deleted successfully", nil)
	}
}
