package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

type WorkItemCreateRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	DefaultSubtaskIDs []string `json:"default_subtask_ids"`
}

type WorkItemUpdateRequest struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	DefaultSubtaskIDs *[]string `json:"default_subtask_ids"`
}

func handleListWorkItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var workItems []models.WorkItem
		if err := db.Where("tenant_id = ?", actor.TenantID).Order("name ASC").Find(&workItems).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch work items")
			return
		}
		utils.OKResponse(c, "Work items retrieved successfully", workItems)
	}
}

func handleCreateWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupWorkItems) {
			return
		}

		var req WorkItemCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now().UTC()
		workItem := models.WorkItem{
			ID:                uuid.New(),
			TenantID:          actor.TenantID,
			Name:              req.Name,
			Description:       req.Description,
			DefaultSubtaskIDs: req.DefaultSubtaskIDs,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := db.Create(&workItem).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create work item")
			return
		}
		utils.CreatedResponse(c, "Work item created successfully", workItem)
	}
}

func handleUpdateWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupWorkItems) {
			return
		}
		workItemID, ok := parseUUIDParam(c, "workItemId")
		if !ok {
			return
		}

		var req WorkItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var workItem models.WorkItem
		if err := db.Where("id = ? AND tenant_id = ?", workItemID, actor.TenantID).First(&workItem).Error; err != nil {
			utils.NotFoundResponse(c, "Work item not found")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.DefaultSubtaskIDs != nil {
			updates["default_subtask_ids"] = models.StringList(*req.DefaultSubtaskIDs)
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(&workItem).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update work item")
				return
			}
		}

		utils.OKResponse(c, "Work item updated successfully", workItem)
	}
}

func handleDeleteWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupWorkItems) {
			return
		}
		workItemID, ok := parseUUIDParam(c, "workItemId")
		if !ok {
			return
		}

		result := db.Where("id = ? AND tenant_id = ?", workItemID, actor.TenantID).Delete(&models.WorkItem{})
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete work item")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "Work item not found")
			return
		}
		utils.OKResponse(c, "Work item deleted successfully", nil)
	}
}
