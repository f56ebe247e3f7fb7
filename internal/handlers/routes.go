package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/middleware"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/storage"
)

// Register wires every API route onto the router.
func Register(
	router *gin.Engine,
	db *gorm.DB,
	authMiddleware *middleware.AuthMiddleware,
	recorder *activity.Recorder,
	notifier *notify.Dispatcher,
	hub *notify.Hub,
	blobs storage.BlobStore,
) {
	// Realtime notification channel; authenticates via query token since
	// browsers cannot set websocket headers.
	router.GET("/ws", handleWebSocket(hub))

	api := router.Group("/api")

	api.POST("/auth/register", handleRegister(db))
	api.POST("/auth/login", handleLogin(db))

	authed := api.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/auth/me", handleGetMe(db))

		authed.GET("/tenant", handleGetTenant(db))
		authed.PUT("/tenant", handleUpdateTenant(db))

		authed.GET("/roles", handleListRoles(db))
		authed.POST("/roles", handleCreateRole(db))
		authed.PUT("/roles/:roleId", handleUpdateRole(db))
		authed.DELETE("/roles/:roleId", handleDeleteRole(db))
		authed.GET("/permissions", handleListPermissions(db))

		authed.GET("/groups", handleListGroups(db))
		authed.POST("/groups", handleCreateGroup(db))
		authed.PUT("/groups/:groupId", handleUpdateGroup(db))
		authed.DELETE("/groups/:groupId", handleDeleteGroup(db))

		authed.GET("/subtasks", handleListSubtasks(db))
		authed.POST("/subtasks", handleCreateSubtask(db))
		authed.PUT("/subtasks/:subtaskId", handleUpdateSubtask(db))
		authed.DELETE("/subtasks/:subtaskId", handleDeleteSubtask(db))

		authed.GET("/workitems", handleListWorkItems(db))
		authed.POST("/workitems", handleCreateWorkItem(db))
		authed.PUT("/workitems/:workItemId", handleUpdateWorkItem(db))
		authed.DELETE("/workitems/:workItemId", handleDeleteWorkItem(db))

		authed.GET("/users", handleListUsers(db))
		authed.POST("/users", handleCreateUser(db))
		authed.PUT("/users/:userId", handleUpdateUser(db))
		authed.DELETE("/users/:userId", handleDeleteUser(db))

		authed.GET("/projects", handleListProjects(db))
		authed.POST("/projects", handleCreateProject(db, recorder, notifier))
		authed.GET("/projects/:id", handleGetProject(db))
		authed.PUT("/projects/:id", handleUpdateProject(db, recorder))
		authed.DELETE("/projects/:id", handleDeleteProject(db, blobs))

		authed.GET("/projects/:id/areas", handleListAreas(db))
		authed.POST("/projects/:id/areas", handleCreateArea(db, recorder))
		authed.PUT("/projects/:id/areas/:areaId", handleUpdateArea(db, recorder))
		authed.DELETE("/projects/:id/areas/:areaId", handleDeleteArea(db, recorder))

		authed.GET("/projects/:id/tasks", handleListTasks(db))
		authed.PUT("/projects/:id/tasks/:taskId", handleUpdateTask(db, recorder, notifier))

		authed.GET("/projects/:id/areas/:areaId/payments", handleListPayments(db))
		authed.POST("/projects/:id/areas/:areaId/payments", handleCreatePayment(db, recorder))
		authed.DELETE("/projects/:id/areas/:areaId/payments/:paymentId", handleDeletePayment(db, recorder))

		authed.GET("/projects/:id/assignments", handleListAssignments(db))
		authed.POST("/projects/:id/assignments", handleCreateAssignment(db, recorder, notifier))
		authed.DELETE("/projects/:id/assignments/:assignmentId", handleDeleteAssignment(db, recorder))

		authed.GET("/projects/:id/activities", handleListActivities(db))

		authed.GET("/notifications", handleListNotifications(db))
		authed.PUT("/notifications/read-all", handleMarkAllNotificationsRead(db))
		authed.PUT("/notifications/:notificationId/read", handleMarkNotificationRead(db))
		authed.GET("/notifications/unread-count", handleUnreadCount(db))

		authed.GET("/files", handleListFiles(db))
		authed.POST("/files", handleUploadFile(db, recorder, blobs))
		authed.GET("/files/:fileId", handleDownloadFile(db, blobs))
		authed.DELETE("/files/:fileId", handleDeleteFile(db, recorder, blobs))

		authed.GET("/dashboard/stats", handleDashboardStats(db))
	}
}
