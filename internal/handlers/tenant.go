package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

// TenantUpdateRequest enumerates the mutable tenant settings. Only non-nil
// fields are applied.
type TenantUpdateRequest struct {
	Name           *string `json:"name"`
	City           *string `json:"city"`
	District       *string `json:"district"`
	Address        *string `json:"address"`
	ContactEmail   *string `json:"contact_email"`
	Phone          *string `json:"phone"`
	TaxOffice      *string `json:"tax_office"`
	TaxNumber      *string `json:"tax_number"`
	LightLogoURL   *string `json:"light_logo_url"`
	DarkLogoURL    *string `json:"dark_logo_url"`
	SetupCompleted *bool   `json:"setup_completed"`
}

func handleGetTenant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var tenant models.Tenant
		if err := db.Where("id = ?", actor.TenantID).First(&tenant).Error; err != nil {
			utils.NotFoundResponse(c, "Tenant not found")
			return
		}
		utils.OKResponse(c, "Tenant retrieved successfully", tenant)
	}
}

func handleUpdateTenant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermSettingsManage) {
			return
		}

		var req TenantUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.City != nil {
			updates["city"] = *req.City
		}
		if req.District != nil {
			updates["district"] = *req.District
		}
		if req.Address != nil {
			updates["address"] = *req.Address
		}
		if req.ContactEmail != nil {
			updates["contact_email"] = *req.ContactEmail
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.TaxOffice != nil {
			updates["tax_office"] = *req.TaxOffice
		}
		if req.TaxNumber != nil {
			updates["tax_number"] = *req.TaxNumber
		}
		if req.LightLogoURL != nil {
			updates["light_logo_url"] = *req.LightLogoURL
		}
		if req.DarkLogoURL != nil {
			updates["dark_logo_url"] = *req.DarkLogoURL
		}
		if req.SetupCompleted != nil {
			updates["setup_completed"] = *req.SetupCompleted
		}

		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := db.Model(&models.Tenant{}).Where("id = ?", actor.TenantID).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update tenant")
				return
			}
		}

		var tenant models.Tenant
		if err := db.Where("id = ?", actor.TenantID).First(&tenant).Error; err != nil {
			utils.NotFoundResponse(c, "Tenant not found")
			return
		}
		utils.OKResponse(c, "Tenant updated successfully", tenant)
	}
}
