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

type SubtaskCreateRequest struct {
	GroupID     uuid.UUID `json:"group_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
}

type SubtaskUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

func handleListSubtasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		query := db.Where("tenant_id = ?", actor.TenantID)
		if groupID := c.Query("group_id"); groupID != "" {
			query = query.Where("group_id = ?", groupID)
		}

		var subtasks []models.Subtask
		if err := query.Order("sort_order ASC").Find(&subtasks).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch subtasks")
			return
		}
		utils.OKResponse(c, "Subtasks retrieved successfully", subtasks)
	}
}

func handleCreateSubtask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupSubtasks) {
			return
		}

		var req SubtaskCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var group models.Group
		if err := db.Where("id = ? AND tenant_id = ?", req.GroupID, actor.TenantID).First(&group).Error; err != nil {
			utils.NotFoundResponse(c, "Group not found")
			return
		}

		now := time.Now().UTC()
		subtask := models.Subtask{
			ID:          uuid.New(),
			TenantID:    actor.TenantID,
			GroupID:     req.GroupID,
			Name:        req.Name,
			Description: req.Description,
			SortOrder:   req.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&subtask).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create subtask")
			return
		}
		utils.CreatedResponse(c, "Subtask created successfully", subtask)
	}
}

func handleUpdateSubtask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupSubtasks) {
			return
		}
		subtaskID, ok := parseUUIDParam(c, "subtaskId")
		if !ok {
			return
		}

		var req SubtaskUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var subtask models.Subtask
		if err := db.Where("id = ? AND tenant_id = ?", subtaskID, actor.TenantID).First(&subtask).Error; err != nil {
			utils.NotFoundResponse(c, "Subtask not found")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Order != nil {
			updates["sort_order"] = *req.Order
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(&subtask).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update subtask")
				return
			}
		}

		utils.OKResponse(c, "Subtask updated successfully", subtask)
	}
}

func handleDeleteSubtask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupSubtasks) {
			return
		}
		subtaskID, ok := parseUUIDParam(c, "subtaskId")
		if !ok {
			return
		}

		result := db.Where("id = ? AND tenant_id = ?", subtaskID, actor.TenantID).Delete(&models.Subtask{})
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete subtask")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "Subtask not found")
			return
		}
		utils.OKResponse(c, "Subtask deleted successfully", nil)
	}
}
