package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/finance"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

// DashboardStats summarizes the actor's visible projects.
type DashboardStats struct {
	TotalProjects     int                   `json:"total_projects"`
	ActiveProjects    int                   `json:"active_projects"`
	CompletedProjects int                   `json:"completed_projects"`
	StoppedProjects   int                   `json:"stopped_projects"`
	TotalTasks        int64                 `json:"total_tasks"`
	CompletedTasks    int64                 `json:"completed_tasks"`
	CompletionRate    float64               `json:"completion_rate"`
	StatusCounts      map[string]int        `json:"status_counts"`
	UserCount         int64                 `json:"user_count"`
	Finance           finance.ProjectTotals `json:"finance"`
	RecentProjects    []models.Project      `json:"recent_projects"`
	RecentActivities  []models.Activity     `json:"recent_activities"`
}

func handleDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		query := db.Where("tenant_id = ?", actor.TenantID)
		if !actor.IsAdmin && !authz.HasPermission(actor, authz.PermProjectsViewAll) {
			query = query.Where(
				"created_by = ? OR id IN (?)",
				actor.ID,
				db.Model(&models.Assignment{}).Select("project_id").
					Where("tenant_id = ? AND user_id = ?", actor.TenantID, actor.ID),
			)
		}

		var projects []models.Project
		if err := query.Find(&projects).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch projects")
			return
		}

		stats := DashboardStats{
			TotalProjects:    len(projects),
			StatusCounts:     map[string]int{},
			RecentProjects:   []models.Project{},
			RecentActivities: []models.Activity{},
		}
		db.Model(&models.User{}).Where("tenant_id = ?", actor.TenantID).Count(&stats.UserCount)

		projectIDs := make([]uuid.UUID, 0, len(projects))
		for _, p := range projects {
			stats.StatusCounts[string(p.Status)]++
			switch p.Status {
			case models.StatusTamamlandi:
				stats.CompletedProjects++
			case models.StatusDurduruldu:
				stats.StoppedProjects++
			default:
				stats.ActiveProjects++
			}
			projectIDs = append(projectIDs, p.ID)
		}

		if len(projectIDs) > 0 {
			db.Model(&models.Task{}).Where("project_id IN ?", projectIDs).Count(&stats.TotalTasks)
			db.Model(&models.Task{}).Where("project_id IN ? AND status = ?", projectIDs, models.StatusTamamlandi).
				Count(&stats.CompletedTasks)
			if stats.TotalTasks > 0 {
				stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
			}

			var areas []models.Area
			db.Where("project_id IN ?", projectIDs).Find(&areas)
			var payments []models.Payment
			db.Where("project_id IN ?", projectIDs).Find(&payments)
			stats.Finance = finance.ForProject(areas, payments)

			db.Where("id IN ?", projectIDs).
				Order("created_at DESC").Limit(5).Find(&stats.RecentProjects)
			db.Where("project_id IN ?", projectIDs).
				Order("created_at DESC").Limit(10).Find(&stats.RecentActivities)
		}

		utils.OKResponse(c, "Dashboard stats retrieved successfully", stats)
	}
}
