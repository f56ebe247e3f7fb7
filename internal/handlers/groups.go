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

type GroupCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type GroupUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

func handleListGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var groups []models.Group
		if err := db.Where("tenant_id = ?", actor.TenantID).Order("sort_order ASC").Find(&groups).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch groups")
			return
		}
		utils.OKResponse(c, "Groups retrieved successfully", groups)
	}
}

func handleCreateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupGroups) {
			return
		}

		var req GroupCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now().UTC()
		group := models.Group{
			ID:          uuid.New(),
			TenantID:    actor.TenantID,
			Name:        req.Name,
			Description: req.Description,
			SortOrder:   req.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&group).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create group")
			return
		}
		utils.CreatedResponse(c, "Group created successfully", group)
	}
}

func handleUpdateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupGroups) {
			return
		}
		groupID, ok := parseUUIDParam(c, "groupId")
		if !ok {
			return
		}

		var req GroupUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var group models.Group
		if err := db.Where("id = ? AND tenant_id = ?", groupID, actor.TenantID).First(&group).Error; err != nil {
			utils.NotFoundResponse(c, "Group not found")
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
			if err := db.Model(&group).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update group")
				return
			}
		}

		utils.OKResponse(c, "Group updated successfully", group)
	}
}

func handleDeleteGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupGroups) {
			return
		}
		groupID, ok := parseUUIDParam(c, "groupId")
		if !ok {
			return
		}

		// Subtasks cannot outlive their group.
		if err := db.Where("group_id = ? AND tenant_id = ?", groupID, actor.TenantID).Delete(&models.Subtask{}).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete group subtasks")
			return
		}

		result := db.Where("id = ? AND tenant_id = ?", groupID, actor.TenantID).Delete(&models.Group{})
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete group")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "Group not found")
			return
		}
		utils.OKResponse(c, "Group deleted successfully", nil)
	}
}
