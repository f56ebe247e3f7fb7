package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

type UserCreateRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	FullName string     `json:"full_name" binding:"required"`
	Color    string     `json:"color"`
	RoleID   *uuid.UUID `json:"role_id"`
	IsAdmin  bool       `json:"is_admin"`
}

type UserUpdateRequest struct {
	FullName  *string    `json:"full_name"`
	Password  *string    `json:"password"`
	Color     *string    `json:"color"`
	RoleID    *uuid.UUID `json:"role_id"`
	ClearRole bool       `json:"clear_role"`
	IsAdmin   *bool      `json:"is_admin"`
}

func handleListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermUsersView) {
			return
		}

		var users []models.User
		if err := db.Preload("Role").Where("tenant_id = ?", actor.TenantID).Order("full_name ASC").Find(&users).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch users")
			return
		}
		utils.OKResponse(c, "Users retrieved successfully", users)
	}
}

func handleCreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermUsersManage) {
			return
		}

		var req UserCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.RoleID != nil {
			var role models.Role
			if err := db.Where("id = ? AND tenant_id = ?", req.RoleID, actor.TenantID).First(&role).Error; err != nil {
				utils.NotFoundResponse(c, "Role not found")
				return
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to process password")
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           uuid.New(),
			TenantID:     actor.TenantID,
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
			Color:        req.Color,
			RoleID:       req.RoleID,
			IsAdmin:      req.IsAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(&user).Error; err != nil {
			if isDuplicateKeyError(err) {
				utils.ConflictResponse(c, "A user with this email already exists")
				return
			}
			utils.InternalServerErrorResponse(c, "Failed to create user")
			return
		}
		utils.CreatedResponse(c, "User created successfully", user)
	}
}

func handleUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		userID, ok := parseUUIDParam(c, "userId")
		if !ok {
			return
		}

		// Everyone may edit their own profile; editing others needs the
		// management permission. Role and admin changes always do.
		self := userID == actor.ID
		if !self && !requirePermission(c, actor, authz.PermUsersManage) {
			return
		}

		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
		if self && (req.RoleID != nil || req.ClearRole || req.IsAdmin != nil) {
			if !requirePermission(c, actor, authz.PermUsersManage) {
				return
			}
		}

		var user models.User
		if err := db.Where("id = ? AND tenant_id = ?", userID, actor.TenantID).First(&user).Error; err != nil {
			utils.NotFoundResponse(c, "User not found")
			return
		}

		updates := map[string]interface{}{}
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
		}
		if req.Color != nil {
			updates["color"] = *req.Color
		}
		if req.Password != nil {
			if len(*req.Password) < 6 {
				utils.BadRequestResponse(c, "Password must be at least 6 characters")
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				utils.InternalServerErrorResponse(c, "Failed to process password")
				return
			}
			updates["password_hash"] = string(hash)
		}
		if req.ClearRole {
			updates["role_id"] = nil
		} else if req.RoleID != nil {
			var role models.Role
			if err := db.Where("id = ? AND tenant_id = ?", req.RoleID, actor.TenantID).First(&role).Error; err != nil {
				utils.NotFoundResponse(c, "Role not found")
				return
			}
			updates["role_id"] = *req.RoleID
		}
		if req.IsAdmin != nil {
			// Nobody may strip their own admin flag; another admin must do it.
			if userID == actor.ID && !*req.IsAdmin {
				utils.BadRequestResponse(c, "You cannot remove your own admin access")
				return
			}
			updates["is_admin"] = *req.IsAdmin
		}

		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update user")
				return
			}
		}

		if err := db.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to reload user")
			return
		}
		utils.OKResponse(c, "User updated successfully", user)
	}
}

func handleDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermUsersManage) {
			return
		}
		userID, ok := parseUUIDParam(c, "userId")
		if !ok {
			return
		}
		if userID == actor.ID {
			utils.BadRequestResponse(c, "You cannot delete your own account")
			return
		}

		result := db.Where("id = ? AND tenant_id = ?", userID, actor.TenantID).Delete(&models.User{})
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete user")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "User not found")
			return
		}

		// The user's task assignments become dangling names otherwise.
		db.Model(&models.Task{}).
			Where("tenant_id = ? AND assigned_to = ?", actor.TenantID, userID).
			Updates(map[string]interface{}{"assigned_to": nil, "assigned_to_name": ""})
		db.Where("tenant_id = ? AND user_id = ?", actor.TenantID, userID).Delete(&models.Assignment{})

		utils.OKResponse(c, "User deleted successfully", nil)
	}
}
