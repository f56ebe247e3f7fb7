package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one customer company. It is the isolation boundary:
// every other entity carries its id.
type Tenant struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name           string    `json:"name" gorm:"not null"`
	City           string    `json:"city,omitempty"`
	District       string    `json:"district,omitempty"`
	Address        string    `json:"address,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	TaxOffice      string    `json:"tax_office,omitempty"`
	TaxNumber      string    `json:"tax_number,omitempty"`
	LightLogoURL   string    `json:"light_logo_url,omitempty"`
	DarkLogoURL    string    `json:"dark_logo_url,omitempty"`
	SetupCompleted bool      `json:"setup_completed" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
