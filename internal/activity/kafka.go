package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// AuditEvent mirrors an activity entry onto the audit stream.
type AuditEvent struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	AreaID      *uuid.UUID `json:"area_id,omitempty"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	ActorID     uuid.UUID  `json:"actor_id"`
	ActorName   string     `json:"actor_name"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuditProducer publishes audit events to Kafka through a buffered channel
// drained by a worker pool. Publishing never blocks a request: when the
// queue is full the event is dropped.
type AuditProducer struct {
	writer       *kafka.Writer
	eventChan    chan AuditEvent
	workerCount  int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

// NewAuditProducer creates a producer with its worker pool running.
func NewAuditProducer(broker string) *AuditProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	ap := &AuditProducer{
		writer:       writer,
		eventChan:    make(chan AuditEvent, 1000),
		workerCount:  4,
		shutdownChan: make(chan struct{}),
	}

	ap.startWorkers()

	return ap
}

func (ap *AuditProducer) startWorkers() {
	for i := 0; i < ap.workerCount; i++ {
		ap.wg.Add(1)
		go ap.eventWorker(i)
	}
	logrus.Infof("audit producer started %d workers", ap.workerCount)
}

func (ap *AuditProducer) eventWorker(id int) {
	defer ap.wg.Done()

	for {
		select {
		case event := <-ap.eventChan:
			if err := ap.sendEventSync(event); err != nil {
				logrus.WithError(err).Warnf("audit worker %d: failed to send event", id)
			}
		case <-ap.shutdownChan:
			return
		}
	}
}

// Publish queues an audit event asynchronously (non-blocking).
func (ap *AuditProducer) Publish(event AuditEvent) error {
	select {
	case ap.eventChan <- event:
		return nil
	default:
		return fmt.Errorf("audit event queue full, event dropped")
	}
}

func (ap *AuditProducer) sendEventSync(event AuditEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := kafka.Message{
		Topic: "project-activities",
		Key:   []byte(event.TenantID.String()),
		Value: message,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "tenant_id", Value: []byte(event.TenantID.String())},
			{Key: "project_id", Value: []byte(event.ProjectID.String())},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ap.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write audit event to Kafka: %w", err)
	}

	return nil
}

// Close gracefully shuts down the producer and its workers.
func (ap *AuditProducer) Close() error {
	close(ap.shutdownChan)
	ap.wg.Wait()
	close(ap.eventChan)

	if err := ap.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	return nil
}
