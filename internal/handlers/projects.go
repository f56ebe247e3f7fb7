package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/finance"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/storage"
	"github.com/craftforge/craftforge/internal/utils"
)

type ProjectCreateRequest struct {
	Name            string     `json:"name" binding:"required"`
	Description     string     `json:"description"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerAddress string     `json:"customer_address"`
	DueDate         *time.Time `json:"due_date"`
}

type ProjectUpdateRequest struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	CustomerName    *string        `json:"customer_name"`
	CustomerPhone   *string        `json:"customer_phone"`
	CustomerAddress *string        `json:"customer_address"`
	DueDate         *time.Time     `json:"due_date"`
	Status          *models.Status `json:"status"`
}

// ProjectSummary is a list row: the project plus derived money totals and
// task progress.
type ProjectSummary struct {
	models.Project
	AreaCount int     `json:"area_count"`
	Progress  float64 `json:"progress"`
	finance.ProjectTotals
}

// ProjectDetail is the full read: areas carry their own derived totals and
// progress is the completed share of all tasks.
type ProjectDetail struct {
	models.Project
	Areas    []AreaView    `json:"areas"`
	Tasks    []models.Task `json:"tasks"`
	Progress float64       `json:"progress"`
	finance.ProjectTotals
}

// AreaView is an area plus its derived totals.
type AreaView struct {
	models.Area
	finance.AreaTotals
}

func handleListProjects(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		query := db.Where("tenant_id = ?", actor.TenantID)
		if !actor.IsAdmin && !authz.HasPermission(actor, authz.PermProjectsViewAll) {
			// Visible set: created by the actor or carrying one of their
			// assignments, regardless of assignment scope.
			query = query.Where(
				"created_by = ? OR id IN (?)",
				actor.ID,
				db.Model(&models.Assignment{}).Select("project_id").
					Where("tenant_id = ? AND user_id = ?", actor.TenantID, actor.ID),
			)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var projects []models.Project
		if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch projects")
			return
		}

		summaries := make([]ProjectSummary, 0, len(projects))
		for _, p := range projects {
			var areas []models.Area
			db.Where("project_id = ?", p.ID).Find(&areas)
			var payments []models.Payment
			db.Where("project_id = ?", p.ID).Find(&payments)

			var total, completed int64
			db.Model(&models.Task{}).Where("project_id = ?", p.ID).Count(&total)
			progress := 0.0
			if total > 0 {
				db.Model(&models.Task{}).
					Where("project_id = ? AND status = ?", p.ID, models.StatusTamamlandi).
					Count(&completed)
				progress = float64(completed) / float64(total) * 100
			}

			summaries = append(summaries, ProjectSummary{
				Project:       p,
				AreaCount:     len(areas),
				Progress:      progress,
				ProjectTotals: finance.ForProject(areas, payments),
			})
		}
		utils.OKResponse(c, "Projects retrieved successfully", summaries)
	}
}

func handleGetProject(db *gorm.DB) gin.HandlerFunc {
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

		var areas []models.Area
		if err := db.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&areas).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch project areas")
			return
		}
		var payments []models.Payment
		if err := db.Where("project_id = ?", project.ID).Find(&payments).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch project payments")
			return
		}

		var tasks []models.Task
		if err := db.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&tasks).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch project tasks")
			return
		}

		byArea := finance.GroupByArea(payments)
		views := make([]AreaView, 0, len(areas))
		for _, a := range areas {
			views = append(views, AreaView{
				Area:       a,
				AreaTotals: finance.ForArea(a.AgreedPrice, byArea[a.ID]),
			})
		}

		progress := 0.0
		if len(tasks) > 0 {
			completed := 0
			for _, t := range tasks {
				if t.Status == models.StatusTamamlandi {
					completed++
				}
			}
			progress = float64(completed) / float64(len(tasks)) * 100
		}

		utils.OKResponse(c, "Project retrieved successfully", ProjectDetail{
			Project:       *project,
			Areas:         views,
			Tasks:         tasks,
			Progress:      progress,
			ProjectTotals: finance.ForProject(areas, payments),
		})
	}
}

func handleCreateProject(db *gorm.DB, recorder *activity.Recorder, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermProjectsCreate) {
			return
		}

		var req ProjectCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now().UTC()
		project := models.Project{
			ID:              uuid.New(),
			TenantID:        actor.TenantID,
			Name:            req.Name,
			Description:     req.Description,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerAddress: req.CustomerAddress,
			Status:          models.StatusPlanlandi,
			DueDate:         req.DueDate,
			CreatedBy:       actor.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.Create(&project).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create project")
			return
		}

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			Action:      models.ActionProjectCreated,
			Description: fmt.Sprintf("'%s' projesi oluşturuldu", project.Name),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
		})

		// Other admins learn about new projects without polling.
		var admins []models.User
		db.Where("tenant_id = ? AND is_admin = ? AND id <> ?", actor.TenantID, true, actor.ID).Find(&admins)
		for _, admin := range admins {
			notifier.Notify(admin.ID, actor.TenantID,
				"Yeni Proje",
				fmt.Sprintf("%s, '%s' projesini oluşturdu", actor.FullName, project.Name),
				"info",
				"/projects/"+project.ID.String(),
			)
		}

		utils.CreatedResponse(c, "Project created successfully", project)
	}
}

// lockedProjectUpdate narrows an update on a locked project to the status
// transition alone. Only an admin changing the status gets through the lock.
func lockedProjectUpdate(isAdmin, statusChanging bool, status *models.Status) (map[string]interface{}, bool) {
	if !isAdmin || !statusChanging || status == nil {
		return nil, false
	}
	return map[string]interface{}{"status": *status}, true
}

func handleUpdateProject(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermProjectsEdit) {
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

		var req ProjectUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		statusChanging := req.Status != nil && *req.Status != project.Status
		if statusChanging && !models.ValidProjectStatus(*req.Status) {
			utils.BadRequestResponse(c, "Invalid project status")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.CustomerName != nil {
			updates["customer_name"] = *req.CustomerName
		}
		if req.CustomerPhone != nil {
			updates["customer_phone"] = *req.CustomerPhone
		}
		if req.CustomerAddress != nil {
			updates["customer_address"] = *req.CustomerAddress
		}
		if req.DueDate != nil {
			updates["due_date"] = *req.DueDate
		}
		if statusChanging {
			updates["status"] = *req.Status
		}

		// A locked project accepts only a status transition, and only from
		// an admin; any other fields in the payload wait until the project
		// is reopened.
		if err := authz.CheckLock(project, actor); err != nil {
			restricted, ok := lockedProjectUpdate(actor.IsAdmin, statusChanging, req.Status)
			if !ok {
				respondLockError(c, err)
				return
			}
			updates = restricted
		}

		if len(updates) > 0 {
			oldStatus := project.Status
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(project).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update project")
				return
			}

			meta := models.Metadata{}
			description := fmt.Sprintf("'%s' projesi güncellendi", project.Name)
			if statusChanging {
				meta["old_status"] = string(oldStatus)
				meta["new_status"] = string(*req.Status)
				description = fmt.Sprintf("'%s' projesi: %s → %s", project.Name, oldStatus, *req.Status)
			}
			recorder.Record(activity.Entry{
				TenantID:    actor.TenantID,
				ProjectID:   project.ID,
				Action:      models.ActionProjectUpdated,
				Description: description,
				ActorID:     actor.ID,
				ActorName:   actor.FullName,
				Metadata:    meta,
			})
		}

		reloaded, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to reload project")
			return
		}
		utils.OKResponse(c, "Project updated successfully", reloaded)
	}
}

func handleDeleteProject(db *gorm.DB, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermProjectsDelete) {
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

		var files []models.File
		db.Where("tenant_id = ? AND project_id = ?", actor.TenantID, projectID).Find(&files)

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, m := range []interface{}{
				&models.Task{}, &models.Payment{}, &models.Assignment{},
				&models.Area{}, &models.Activity{}, &models.File{},
			} {
				if err := tx.Where("project_id = ?", projectID).Delete(m).Error; err != nil {
					return err
				}
			}
			return tx.Delete(project).Error
		})
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete project")
			return
		}

		// Blob cleanup is best-effort once the rows are gone.
		for _, f := range files {
			_ = blobs.Delete(f.TenantID.String(), f.StoredName)
		}

		utils.OKResponse(c, "Project deleted successfully", nil)
	}
}
