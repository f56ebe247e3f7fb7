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

// RoleCreateRequest creates a tenant role.
type RoleCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleUpdateRequest enumerates the mutable role fields.
type RoleUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

func handleListRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var roles []models.Role
		if err := db.Where("tenant_id = ?", actor.TenantID).Order("created_at ASC").Find(&roles).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch roles")
			return
		}
		utils.OKResponse(c, "Roles retrieved successfully", roles)
	}
}

func handleCreateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupRoles) {
			return
		}

		var req RoleCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now().UTC()
		role := models.Role{
			ID:          uuid.New(),
			TenantID:    actor.TenantID,
			Name:        req.Name,
			Description: req.Description,
			Permissions: req.Permissions,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&role).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create role")
			return
		}
		utils.CreatedResponse(c, "Role created successfully", role)
	}
}

func handleUpdateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupRoles) {
			return
		}
		roleID, ok := parseUUIDParam(c, "roleId")
		if !ok {
			return
		}

		var req RoleUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var role models.Role
		if err := db.Where("id = ? AND tenant_id = ?", roleID, actor.TenantID).First(&role).Error; err != nil {
			utils.NotFoundResponse(c, "Role not found")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Permissions != nil {
			updates["permissions"] = models.StringList(*req.Permissions)
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(&role).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update role")
				return
			}
		}

		utils.OKResponse(c, "Role updated successfully", role)
	}
}

func handleDeleteRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSetupRoles) {
			return
		}
		roleID, ok := parseUUIDParam(c, "roleId")
		if !ok {
			return
		}

		result := db.Where("id = ? AND tenant_id = ?", roleID, actor.TenantID).Delete(&models.Role{})
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete role")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "Role not found")
			return
		}
		utils.OKResponse(c, "Role deleted successfully", nil)
	}
}

func handleListPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var permissions []models.Permission
		if err := db.Where("tenant_id = ?", actor.TenantID).Order("key ASC").Find(&permissions).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch permissions")
			return
		}
		utils.OKResponse(c, "Permissions retrieved successfully", permissions)
	}
}
