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
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/rollup"
	"github.com/craftforge/craftforge/internal/utils"
)

type TaskUpdateRequest struct {
	Status     *models.Status `json:"status"`
	Notes      *string        `json:"notes"`
	AssignedTo *uuid.UUID     `json:"assigned_to"`
	Unassign   bool           `json:"unassign"`
}

func handleListTasks(db *gorm.DB) gin.HandlerFunc {
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

		var areaFilter *uuid.UUID
		if raw := c.Query("area_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid area_id")
				return
			}
			areaFilter = &id
		}
		if !requireProjectAccess(c, db, actor, project, areaFilter) {
			return
		}

		query := db.Where("project_id = ?", project.ID)
		if areaFilter != nil {
			query = query.Where("area_id = ?", *areaFilter)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var tasks []models.Task
		if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tasks")
			return
		}
		utils.OKResponse(c, "Tasks retrieved successfully", tasks)
	}
}

func handleUpdateTask(db *gorm.DB, recorder *activity.Recorder, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		taskID, ok := parseUUIDParam(c, "taskId")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermTasksEdit) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}

		var task models.Task
		if err := db.Where("id = ? AND project_id = ? AND tenant_id = ?", taskID, projectID, actor.TenantID).First(&task).Error; err != nil {
			utils.NotFoundResponse(c, "Task not found")
			return
		}

		if !requireProjectAccess(c, db, actor, project, &task.AreaID) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}

		var req TaskUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.Status != nil && !models.ValidTaskStatus(*req.Status) {
			utils.BadRequestResponse(c, "Invalid task status")
			return
		}

		updates := map[string]interface{}{}
		statusChanged := req.Status != nil && *req.Status != task.Status
		if statusChanged {
			updates["status"] = *req.Status
		}
		notesChanged := req.Notes != nil && *req.Notes != task.Notes
		if notesChanged {
			updates["notes"] = *req.Notes
		}

		var newAssignee *models.User
		assignmentChanged := false
		if req.Unassign {
			if task.AssignedTo != nil {
				assignmentChanged = true
				updates["assigned_to"] = nil
				updates["assigned_to_name"] = ""
			}
		} else if req.AssignedTo != nil {
			if task.AssignedTo == nil || *task.AssignedTo != *req.AssignedTo {
				var user models.User
				if err := db.Where("id = ? AND tenant_id = ?", req.AssignedTo, actor.TenantID).First(&user).Error; err != nil {
					utils.NotFoundResponse(c, "Assignee not found")
					return
				}
				newAssignee = &user
				assignmentChanged = true
				updates["assigned_to"] = user.ID
				updates["assigned_to_name"] = user.FullName
			}
		}

		if len(updates) == 0 {
			utils.OKResponse(c, "Task unchanged", task)
			return
		}

		oldStatus := task.Status
		oldAssignee := task.AssignedTo

		updates["updated_at"] = time.Now().UTC()
		if err := db.Model(&task).Updates(updates).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update task")
			return
		}

		taskLabel := fmt.Sprintf("%s / %s", task.WorkItemName, task.SubtaskName)
		base := activity.Entry{
			TenantID:  actor.TenantID,
			ProjectID: project.ID,
			AreaID:    &task.AreaID,
			ActorID:   actor.ID,
			ActorName: actor.FullName,
		}

		if statusChanged {
			e := base
			e.Action = models.ActionTaskStatusChanged
			e.Description = fmt.Sprintf("'%s' görevi: %s → %s", taskLabel, oldStatus, *req.Status)
			e.Metadata = models.Metadata{
				"task_id":    task.ID.String(),
				"old_status": string(oldStatus),
				"new_status": string(*req.Status),
			}
			recorder.Record(e)
		}
		if notesChanged {
			e := base
			e.Action = models.ActionTaskNoteUpdated
			e.Description = fmt.Sprintf("'%s' görevinin notu güncellendi", taskLabel)
			e.Metadata = models.Metadata{"task_id": task.ID.String()}
			recorder.Record(e)
		}
		if assignmentChanged {
			e := base
			e.Metadata = models.Metadata{"task_id": task.ID.String()}
			switch {
			case newAssignee == nil:
				e.Action = models.ActionTaskUnassigned
				e.Description = fmt.Sprintf("'%s' görevinin ataması kaldırıldı", taskLabel)
			case oldAssignee == nil:
				e.Action = models.ActionTaskAssigned
				e.Description = fmt.Sprintf("'%s' görevi %s kişisine atandı", taskLabel, newAssignee.FullName)
			default:
				e.Action = models.ActionTaskReassigned
				e.Description = fmt.Sprintf("'%s' görevi %s kişisine devredildi", taskLabel, newAssignee.FullName)
			}
			recorder.Record(e)

			if newAssignee != nil && newAssignee.ID != actor.ID {
				notifier.Notify(newAssignee.ID, actor.TenantID,
					"Görev Atandı",
					fmt.Sprintf("'%s' projesinde '%s' görevi size atandı", project.Name, taskLabel),
					"info",
					"/projects/"+project.ID.String(),
				)
			}
		}

		if statusChanged {
			recomputeAreaStatus(db, task.AreaID)
			recomputeProjectStatus(db, project.ID)
		}

		var reloaded models.Task
		if err := db.Where("id = ?", task.ID).First(&reloaded).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to reload task")
			return
		}
		utils.OKResponse(c, "Task updated successfully", reloaded)
	}
}

// recomputeAreaStatus rederives the area status from its tasks and persists
// it when changed.
func recomputeAreaStatus(db *gorm.DB, areaID uuid.UUID) {
	var statuses []models.Status
	if err := db.Model(&models.Task{}).Where("area_id = ?", areaID).Pluck("status", &statuses).Error; err != nil {
		logrus.WithError(err).WithField("area_id", areaID).Error("failed to load task statuses for rollup")
		return
	}

	derived := rollup.Reduce(statuses)
	err := db.Model(&models.Area{}).
		Where("id = ? AND status <> ?", areaID, derived).
		Updates(map[string]interface{}{"status": derived, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		logrus.WithError(err).WithField("area_id", areaID).Error("failed to persist area rollup")
	}
}

// recomputeProjectStatus rederives the project status from every task in the
// project. A project without tasks keeps whatever status it has, including an
// admin-set lock state.
func recomputeProjectStatus(db *gorm.DB, projectID uuid.UUID) {
	var project models.Project
	if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
		return
	}

	var statuses []models.Status
	if err := db.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("status", &statuses).Error; err != nil {
		logrus.WithError(err).WithField("project_id", projectID).Error("failed to load task statuses for rollup")
		return
	}

	derived := rollup.ReduceProject(project.Status, statuses)
	if derived == project.Status {
		return
	}
	err := db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{"status": derived, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		logrus.WithError(err).WithField("project_id", projectID).Error("failed to persist project rollup")
	}
}
