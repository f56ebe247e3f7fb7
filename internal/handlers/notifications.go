package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

func handleListNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		query := db.Where("user_id = ?", actor.ID)
		if c.Query("unread_only") == "true" {
			query = query.Where("is_read = ?", false)
		}
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		var notifications []models.Notification
		if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch notifications")
			return
		}
		utils.OKResponse(c, "Notifications retrieved successfully", notifications)
	}
}

func handleMarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		notificationID, ok := parseUUIDParam(c, "notificationId")
		if !ok {
			return
		}

		result := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", notificationID, actor.ID).
			Update("is_read", true)
		if result.Error != nil {
			utils.InternalServerErrorResponse(c, "Failed to update notification")
			return
		}
		if result.RowsAffected == 0 {
			utils.NotFoundResponse(c, "Notification not found")
			return
		}

		_ = utils.CacheDelete(utils.UnreadCountKey(actor.ID.String()))
		utils.OKResponse(c, "Notification marked as read", nil)
	}
}

func handleMarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		err := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", actor.ID, false).
			Update("is_read", true).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update notifications")
			return
		}

		_ = utils.CacheDelete(utils.UnreadCountKey(actor.ID.String()))
		utils.OKResponse(c, "All notifications marked as read", nil)
	}
}

func handleUnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		key := utils.UnreadCountKey(actor.ID.String())
		if cached, err := utils.CacheGet(key); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				utils.OKResponse(c, "Unread count retrieved successfully", gin.H{"count": count})
				return
			}
		}

		var count int64
		if err := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", actor.ID, false).
			Count(&count).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to count notifications")
			return
		}

		_ = utils.CacheSet(key, strconv.FormatInt(count, 10), 5*time.Minute)
		utils.OKResponse(c, "Unread count retrieved successfully", gin.H{"count": count})
	}
}
