package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is the top-level unit of work for a customer. Its status is a
// rollup of its tasks' statuses except for the two admin-set lock states.
type Project struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name            string     `json:"name" gorm:"not null"`
	Description     string     `json:"description,omitempty"`
	CustomerName    string     `json:"customer_name,omitempty"`
	CustomerPhone   string     `json:"customer_phone,omitempty"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	Status          Status     `json:"status" gorm:"type:varchar(20);not null;default:'planlandi'"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedBy       uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Area is one physical work site within a project (e.g. a single room). The
// agreed price is fixed at creation; collected/remaining amounts are derived
// from payments on every read and never stored.
type Area struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID    `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID   uuid.UUID    `json:"project_id" gorm:"type:uuid;not null;index"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description,omitempty"`
	AgreedPrice float64      `json:"agreed_price" gorm:"not null"`
	Status      Status       `json:"status" gorm:"type:varchar(20);not null;default:'planlandi'"`
	WorkItems   WorkItemList `json:"work_items" gorm:"type:jsonb;default:'[]'"`
	CreatedBy   uuid.UUID    `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Area) TableName() string {
	return "project_areas"
}

// Task is the atomic unit of work: one (work item × subtask) pairing inside
// an area. Names are denormalized so task lists render without joins.
type Task struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID      uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	AreaID         uuid.UUID  `json:"area_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_area_workitem_subtask"`
	WorkItemID     uuid.UUID  `json:"work_item_id" gorm:"type:uuid;not null;uniqueIndex:idx_area_workitem_subtask"`
	WorkItemName   string     `json:"work_item_name"`
	GroupID        uuid.UUID  `json:"group_id" gorm:"type:uuid;not null"`
	GroupName      string     `json:"group_name"`
	SubtaskID      uuid.UUID  `json:"subtask_id" gorm:"type:uuid;not null;uniqueIndex:idx_area_workitem_subtask"`
	SubtaskName    string     `json:"subtask_name"`
	Status         Status     `json:"status" gorm:"type:varchar(20);not null;default:'bekliyor'"`
	Notes          string     `json:"notes,omitempty"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty" gorm:"type:uuid;index"`
	AssignedToName string     `json:"assigned_to_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Task) TableName() string {
	return "project_tasks"
}

// AssignmentType scopes a staff assignment to a whole project or one area.
type AssignmentType string

const (
	AssignmentProject AssignmentType = "project"
	AssignmentArea    AssignmentType = "area"
)

// Assignment links a user to a project, optionally narrowed to one area.
// The (project, user, type, area) tuple is unique.
type Assignment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID uuid.UUID      `json:"project_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_assignment_tuple"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_assignment_tuple"`
	Type      AssignmentType `json:"assignment_type" gorm:"type:varchar(10);not null;uniqueIndex:idx_assignment_tuple"`
	AreaID    *uuid.UUID     `json:"area_id,omitempty" gorm:"type:uuid;uniqueIndex:idx_assignment_tuple"`
	CreatedBy uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Assignment) TableName() string {
	return "project_assignments"
}

// Payment is an immutable financial record against an area.
type Payment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID      uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	AreaID         uuid.UUID `json:"area_id" gorm:"type:uuid;not null;index"`
	Amount         float64   `json:"amount" gorm:"not null"`
	PaidAt         time.Time `json:"paid_at"`
	Method         string    `json:"method,omitempty"`
	Note           string    `json:"note,omitempty"`
	RecordedBy     uuid.UUID `json:"recorded_by" gorm:"type:uuid;not null"`
	RecordedByName string    `json:"recorded_by_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "project_payments"
}
