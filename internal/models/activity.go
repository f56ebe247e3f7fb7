package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity action vocabulary. Extend as new event kinds appear; readers must
// tolerate unknown actions.
const (
	ActionProjectCreated    = "project_created"
	ActionProjectUpdated    = "project_updated"
	ActionAreaCreated       = "area_created"
	ActionAreaUpdated       = "area_updated"
	ActionAreaDeleted       = "area_deleted"
	ActionStaffAssigned     = "staff_assigned"
	ActionStaffUnassigned   = "staff_unassigned"
	ActionPaymentAdded      = "payment_added"
	ActionPaymentDeleted    = "payment_deleted"
	ActionTaskStatusChanged = "task_status_changed"
	ActionTaskAssigned      = "task_assigned"
	ActionTaskUnassigned    = "task_unassigned"
	ActionTaskReassigned    = "task_reassigned"
	ActionTaskNoteUpdated   = "task_note_updated"
	ActionFileUploaded      = "file_uploaded"
	ActionFileDeleted       = "file_deleted"
)

// Activity is an append-only audit entry attached to a project. Never
// mutated; deleted only by cascade with its project.
type Activity struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	AreaID      *uuid.UUID `json:"area_id,omitempty" gorm:"type:uuid"`
	AreaName    string     `json:"area_name,omitempty"`
	Action      string     `json:"action" gorm:"not null;index"`
	Description string     `json:"description" gorm:"not null"`
	ActorID     uuid.UUID  `json:"actor_id" gorm:"type:uuid;not null"`
	ActorName   string     `json:"actor_name"`
	Metadata    Metadata   `json:"metadata,omitempty" gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

func (Activity) TableName() string {
	return "project_activities"
}

// Notification belongs to one user; only is_read is ever mutated.
type Notification struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message"`
	Type      string    `json:"type" gorm:"type:varchar(20);default:'info'"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// File is blob metadata; the content lives in the blob store under
// <tenant_id>/<stored_name>.
type File struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid;index"`
	AreaID       *uuid.UUID `json:"area_id,omitempty" gorm:"type:uuid"`
	TaskID       *uuid.UUID `json:"task_id,omitempty" gorm:"type:uuid"`
	OriginalName string     `json:"original_name" gorm:"not null"`
	StoredName   string     `json:"-" gorm:"not null"`
	ContentType  string     `json:"content_type,omitempty"`
	Size         int64      `json:"size"`
	UploadedBy   uuid.UUID  `json:"uploaded_by" gorm:"type:uuid;not null"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (File) TableName() string {
	return "files"
}
