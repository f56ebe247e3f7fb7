package models

import (
	"time"

	"github.com/google/uuid"
)

// Group orders a set of subtasks, e.g. "Üretim" (production).
type Group struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// Subtask is one step inside a group, e.g. "Kesim" (cutting). Every subtask
// in the tenant becomes a task when a work item is added to an area.
type Subtask struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	GroupID     uuid.UUID `json:"group_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Group *Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

func (Subtask) TableName() string {
	return "subtasks"
}

// WorkItem is a catalog template ("kitchen cabinet") instantiated into tasks
// when added to an area.
type WorkItem struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name              string     `json:"name" gorm:"not null"`
	Description       string     `json:"description,omitempty"`
	DefaultSubtaskIDs StringList `json:"default_subtask_ids" gorm:"type:jsonb;default:'[]'"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (WorkItem) TableName() string {
	return "workitems"
}
