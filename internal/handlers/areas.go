package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/finance"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

type AreaWorkItemRequest struct {
	WorkItemID uuid.UUID `json:"work_item_id" binding:"required"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
}

type AreaCreateRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	AgreedPrice float64               `json:"agreed_price"`
	WorkItems   []AreaWorkItemRequest `json:"work_items"`
}

type AreaUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	AgreedPrice *float64 `json:"agreed_price"`
}

func handleListAreas(db *gorm.DB) gin.HandlerFunc {
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
			utils.InternalServerErrorResponse(c, "Failed to fetch areas")
			return
		}
		var payments []models.Payment
		db.Where("project_id = ?", project.ID).Find(&payments)

		byArea := finance.GroupByArea(payments)
		views := make([]AreaView, 0, len(areas))
		for _, a := range areas {
			views = append(views, AreaView{
				Area:       a,
				AreaTotals: finance.ForArea(a.AgreedPrice, byArea[a.ID]),
			})
		}
		utils.OKResponse(c, "Areas retrieved successfully", views)
	}
}

func handleCreateArea(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
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
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		var req AreaCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		// Denormalize work item names from the catalog; unknown ids are
		// skipped rather than failing the whole area.
		refs := make(models.WorkItemList, 0, len(req.WorkItems))
		for _, wi := range req.WorkItems {
			var item models.WorkItem
			if err := db.Where("id = ? AND tenant_id = ?", wi.WorkItemID, actor.TenantID).First(&item).Error; err != nil {
				logrus.WithField("work_item_id", wi.WorkItemID).Warn("skipping unknown work item on area creation")
				continue
			}
			quantity := wi.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			refs = append(refs, models.WorkItemRef{
				WorkItemID: item.ID,
				Name:       item.Name,
				Quantity:   quantity,
				Notes:      wi.Notes,
			})
		}

		now := time.Now().UTC()
		area := models.Area{
			ID:          uuid.New(),
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			Name:        req.Name,
			Description: req.Description,
			AgreedPrice: req.AgreedPrice,
			Status:      models.StatusPlanlandi,
			WorkItems:   refs,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&area).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create area")
			return
		}

		// Instantiate one task per work item and subtask. Runs after the
		// area insert without a wrapping transaction; a partial task set is
		// repairable, a lost area is not.
		subtasks, groupNames := loadTaskCatalog(db, actor.TenantID)
		tasks := expandAreaTasks(actor.TenantID, project.ID, area.ID, refs, subtasks, groupNames, now)
		if len(tasks) > 0 {
			if err := db.Create(&tasks).Error; err != nil {
				logrus.WithError(err).WithField("area_id", area.ID).Error("failed to instantiate area tasks")
			}
		}

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			AreaID:      &area.ID,
			AreaName:    area.Name,
			Action:      models.ActionAreaCreated,
			Description: fmt.Sprintf("'%s' alanı eklendi (%d görev)", area.Name, len(tasks)),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			Metadata:    models.Metadata{"task_count": len(tasks)},
		})

		utils.CreatedResponse(c, "Area created successfully", AreaView{
			Area:       area,
			AreaTotals: finance.ForArea(area.AgreedPrice, nil),
		})
	}
}

// loadTaskCatalog fetches the tenant's subtasks (pipeline order) and group
// names for task denormalization.
func loadTaskCatalog(db *gorm.DB, tenantID uuid.UUID) ([]models.Subtask, map[uuid.UUID]string) {
	var subtasks []models.Subtask
	db.Where("tenant_id = ?", tenantID).Order("sort_order ASC").Find(&subtasks)

	groupNames := map[uuid.UUID]string{}
	var groups []models.Group
	db.Where("tenant_id = ?", tenantID).Find(&groups)
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	return subtasks, groupNames
}

// expandAreaTasks expands the area's work items against the subtask catalog:
// one task per (work item, subtask) pair, every name denormalized.
func expandAreaTasks(tenantID, projectID, areaID uuid.UUID, refs models.WorkItemList, subtasks []models.Subtask, groupNames map[uuid.UUID]string, now time.Time) []models.Task {
	if len(subtasks) == 0 || len(refs) == 0 {
		return nil
	}

	tasks := make([]models.Task, 0, len(refs)*len(subtasks))
	for _, ref := range refs {
		for _, st := range subtasks {
			tasks = append(tasks, models.Task{
				ID:           uuid.New(),
				TenantID:     tenantID,
				ProjectID:    projectID,
				AreaID:       areaID,
				WorkItemID:   ref.WorkItemID,
				WorkItemName: ref.Name,
				GroupID:      st.GroupID,
				GroupName:    groupNames[st.GroupID],
				SubtaskID:    st.ID,
				SubtaskName:  st.Name,
				Status:       models.StatusBekliyor,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}
	return tasks
}

func handleUpdateArea(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		areaID, ok := parseUUIDParam(c, "areaId")
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
		if !requireProjectAccess(c, db, actor, project, &areaID) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		area, err := findArea(db, actor.TenantID, projectID, areaID)
		if err != nil {
			utils.NotFoundResponse(c, "Area not found")
			return
		}

		var req AreaUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.AgreedPrice != nil {
			updates["agreed_price"] = *req.AgreedPrice
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(area).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update area")
				return
			}
			recorder.Record(activity.Entry{
				TenantID:    actor.TenantID,
				ProjectID:   project.ID,
				AreaID:      &area.ID,
				AreaName:    area.Name,
				Action:      models.ActionAreaUpdated,
				Description: fmt.Sprintf("'%s' alanı güncellendi", area.Name),
				ActorID:     actor.ID,
				ActorName:   actor.FullName,
			})
		}

		var payments []models.Payment
		db.Where("area_id = ?", area.ID).Find(&payments)
		utils.OKResponse(c, "Area updated successfully", AreaView{
			Area:       *area,
			AreaTotals: finance.ForArea(area.AgreedPrice, payments),
		})
	}
}

func handleDeleteArea(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		areaID, ok := parseUUIDParam(c, "areaId")
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
		if !requireProjectAccess(c, db, actor, project, &areaID) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		area, err := findArea(db, actor.TenantID, projectID, areaID)
		if err != nil {
			utils.NotFoundResponse(c, "Area not found")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("area_id = ?", area.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("area_id = ?", area.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("area_id = ? AND type = ?", area.ID, models.AssignmentArea).Delete(&models.Assignment{}).Error; err != nil {
				return err
			}
			return tx.Delete(area).Error
		})
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete area")
			return
		}

		// The surviving task set drives the project status now.
		recomputeProjectStatus(db, project.ID)

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			AreaID:      &area.ID,
			AreaName:    area.Name,
			Action:      models.ActionAreaDeleted,
			Description: fmt.Sprintf("'%s' alanı silindi", area.Name),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
		})

		utils.OKResponse(c, "Area deleted successfully", nil)
	}
}
