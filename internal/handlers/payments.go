package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/finance"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

type PaymentCreateRequest struct {
	Amount float64    `json:"amount" binding:"required"`
	PaidAt *time.Time `json:"paid_at"`
	Method string     `json:"method"`
	Note   string     `json:"note"`
}

// PaymentListResponse pairs the raw payments with the area's derived totals.
type PaymentListResponse struct {
	Payments []models.Payment `json:"payments"`
	finance.AreaTotals
	AgreedPrice float64 `json:"agreed_price"`
}

func handleListPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		areaID, ok := parseUUIDParam(c, "areaId")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermPaymentsView) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, &areaID) {
			return
		}
		area, err := findArea(db, actor.TenantID, projectID, areaID)
		if err != nil {
			utils.NotFoundResponse(c, "Area not found")
			return
		}

		var payments []models.Payment
		if err := db.Where("area_id = ?", area.ID).Order("paid_at DESC").Find(&payments).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch payments")
			return
		}

		utils.OKResponse(c, "Payments retrieved successfully", PaymentListResponse{
			Payments:    payments,
			AreaTotals:  finance.ForArea(area.AgreedPrice, payments),
			AgreedPrice: area.AgreedPrice,
		})
	}
}

func handleCreatePayment(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		areaID, ok := parseUUIDParam(c, "areaId")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermPaymentsManage) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, &areaID) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}
		area, err := findArea(db, actor.TenantID, projectID, areaID)
		if err != nil {
			utils.NotFoundResponse(c, "Area not found")
			return
		}

		var req PaymentCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
		if req.Amount <= 0 {
			utils.BadRequestResponse(c, "Payment amount must be positive")
			return
		}

		now := time.Now().UTC()
		paidAt := now
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}
		payment := models.Payment{
			ID:             uuid.New(),
			TenantID:       actor.TenantID,
			ProjectID:      project.ID,
			AreaID:         area.ID,
			Amount:         req.Amount,
			PaidAt:         paidAt,
			Method:         req.Method,
			Note:           req.Note,
			RecordedBy:     actor.ID,
			RecordedByName: actor.FullName,
			CreatedAt:      now,
		}
		if err := db.Create(&payment).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to record payment")
			return
		}

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			AreaID:      &area.ID,
			AreaName:    area.Name,
			Action:      models.ActionPaymentAdded,
			Description: fmt.Sprintf("'%s' alanına %.2f tutarında ödeme eklendi", area.Name, payment.Amount),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			Metadata:    models.Metadata{"payment_id": payment.ID.String(), "amount": payment.Amount},
		})

		utils.CreatedResponse(c, "Payment recorded successfully", payment)
	}
}

func handleDeletePayment(db *gorm.DB, recorder *activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		projectID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		areaID, ok := parseUUIDParam(c, "areaId")
		if !ok {
			return
		}
		paymentID, ok := parseUUIDParam(c, "paymentId")
		if !ok {
			return
		}
		if !requirePermission(c, actor, authz.PermPaymentsManage) {
			return
		}

		project, err := findProject(db, actor.TenantID, projectID)
		if err != nil {
			utils.NotFoundResponse(c, "Project not found")
			return
		}
		if !requireProjectAccess(c, db, actor, project, &areaID) {
			return
		}
		if err := authz.CheckLock(project, actor); err != nil {
			respondLockError(c, err)
			return
		}
		area, err := findArea(db, actor.TenantID, projectID, areaID)
		if err != nil {
			utils.NotFoundResponse(c, "Area not found")
			return
		}

		var payment models.Payment
		if err := db.Where("id = ? AND area_id = ?", paymentID, area.ID).First(&payment).Error; err != nil {
			utils.NotFoundResponse(c, "Payment not found")
			return
		}
		if err := db.Delete(&payment).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete payment")
			return
		}

		recorder.Record(activity.Entry{
			TenantID:    actor.TenantID,
			ProjectID:   project.ID,
			AreaID:      &area.ID,
			AreaName:    area.Name,
			Action:      models.ActionPaymentDeleted,
			Description: fmt.Sprintf("'%s' alanından %.2f tutarında ödeme silindi", area.Name, payment.Amount),
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			Metadata:    models.Metadata{"payment_id": payment.ID.String(), "amount": payment.Amount},
		})

		utils.OKResponse(c, "Payment deleted successfully", nil)
	}
}
