package models

import (
	"time"

	"github.com/google/uuid"
)

// User belongs to exactly one tenant. is_admin bypasses every permission
// check; otherwise the linked role's permission keys apply.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FullName     string     `json:"full_name" gorm:"not null"`
	Color        string     `json:"color" gorm:"default:'#4a4036'"`
	RoleID       *uuid.UUID `json:"role_id,omitempty" gorm:"type:uuid"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Role   *Role   `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

func (User) TableName() string {
	return "users"
}

// Role is a tenant-scoped bundle of permission keys. Keys are opaque
// strings, not validated against the catalog at write time.
type Role struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Permissions StringList `json:"permissions" gorm:"type:jsonb;default:'[]'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission is a catalog row describing a known permission key. Seeded per
// tenant at registration; informational for role-editing UIs.
type Permission struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Key         string    `json:"key" gorm:"not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}
