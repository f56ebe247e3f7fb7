package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

func handleListActivities(db *gorm.DB) gin.HandlerFunc {
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

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		query := db.Where("project_id = ?", project.ID)
		if action := c.Query("action"); action != "" {
			query = query.Where("action = ?", action)
		}

		var activities []models.Activity
		if err := query.Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch activities")
			return
		}
		utils.OKResponse(c, "Activities retrieved successfully", activities)
	}
}
