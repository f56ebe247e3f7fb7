package activity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// A producer built by hand, without workers, so queued events stay queued.
func queueOnlyProducer(capacity int) *AuditProducer {
	return &AuditProducer{
		eventChan:    make(chan AuditEvent, capacity),
		shutdownChan: make(chan struct{}),
	}
}

func TestPublish_QueuesWithoutBlocking(t *testing.T) {
	ap := queueOnlyProducer(2)

	assert.NoError(t, ap.Publish(AuditEvent{ID: uuid.New()}))
	assert.NoError(t, ap.Publish(AuditEvent{ID: uuid.New()}))
	assert.Len(t, ap.eventChan, 2)
}

func TestPublish_DropsWhenQueueFull(t *testing.T) {
	ap := queueOnlyProducer(1)

	assert.NoError(t, ap.Publish(AuditEvent{ID: uuid.New()}))

	// The queue is full; the publish must return immediately with an
	// error instead of blocking the request.
	err := ap.Publish(AuditEvent{ID: uuid.New()})
	assert.Error(t, err)
	assert.Len(t, ap.eventChan, 1)
}
