// Package activity appends audit entries for every state-changing action
// and mirrors them onto a Kafka stream. Recording is strictly best-effort:
// a failed insert is logged and counted, never surfaced to the caller,
// because the log must not roll back the mutation that triggered it.
package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/metrics"
	"github.com/craftforge/craftforge/internal/models"
)

// Entry describes one audit record to append. ActorName and AreaName are
// denormalized so activity feeds render without joins.
type Entry struct {
	TenantID    uuid.UUID
	ProjectID   uuid.UUID
	AreaID      *uuid.UUID
	AreaName    string
	Action      string
	Description string
	ActorID     uuid.UUID
	ActorName   string
	Metadata    models.Metadata
}

// Recorder appends activity rows and mirrors them to the audit stream.
// A nil producer disables the mirror (local development without Kafka).
type Recorder struct {
	db       *gorm.DB
	producer *AuditProducer
}

func NewRecorder(db *gorm.DB, producer *AuditProducer) *Recorder {
	return &Recorder{db: db, producer: producer}
}

// Record appends one activity entry. Callers decide whether a change is
// worth logging; no-op updates must not reach here.
func (r *Recorder) Record(e Entry) {
	act := models.Activity{
		ID:          uuid.New(),
		TenantID:    e.TenantID,
		ProjectID:   e.ProjectID,
		AreaID:      e.AreaID,
		AreaName:    e.AreaName,
		Action:      e.Action,
		Description: e.Description,
		ActorID:     e.ActorID,
		ActorName:   e.ActorName,
		Metadata:    e.Metadata,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.db.Create(&act).Error; err != nil {
		metrics.SideEffectFailures.WithLabelValues("activity_log").Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"project_id": e.ProjectID,
			"action":     e.Action,
		}).Error("failed to append activity entry")
		return
	}

	if r.producer == nil {
		return
	}
	event := AuditEvent{
		ID:          act.ID,
		TenantID:    act.TenantID,
		ProjectID:   act.ProjectID,
		AreaID:      act.AreaID,
		Action:      act.Action,
		Description: act.Description,
		ActorID:     act.ActorID,
		ActorName:   act.ActorName,
		CreatedAt:   act.CreatedAt,
	}
	if err := r.producer.Publish(event); err != nil {
		metrics.SideEffectFailures.WithLabelValues("audit_stream").Inc()
		logrus.WithError(err).Warn("audit event dropped")
	}
}
