package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/metrics"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

// Dispatcher persists a notification, then attempts real-time delivery.
// Neither step may fail the triggering request; failures surface only as
// logs and counters.
type Dispatcher struct {
	db  *gorm.DB
	hub *Hub
}

func NewDispatcher(db *gorm.DB, hub *Hub) *Dispatcher {
	return &Dispatcher{db: db, hub: hub}
}

// pushEnvelope is the wire frame pushed over the websocket.
type pushEnvelope struct {
	Type string               `json:"type"`
	Data *models.Notification `json:"data"`
}

// Notify creates the durable record and fans it out to any open channels.
// Returns the persisted notification, or nil when persistence failed.
func (d *Dispatcher) Notify(userID, tenantID uuid.UUID, title, message, notificationType, link string) *models.Notification {
	notification := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TenantID:  tenantID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := d.db.Create(&notification).Error; err != nil {
		metrics.SideEffectFailures.WithLabelValues("notification_store").Inc()
		logrus.WithError(err).WithField("user_id", userID).Error("failed to persist notification")
		return nil
	}

	// Badge cache is stale now.
	_ = utils.CacheDelete(utils.UnreadCountKey(userID.String()))

	if d.hub != nil {
		payload, err := json.Marshal(pushEnvelope{Type: "notification", Data: &notification})
		if err == nil {
			d.hub.SendToUser(userID, payload)
		}
	}

	return &notification
}
