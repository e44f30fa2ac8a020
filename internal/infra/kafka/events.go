package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/port"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes site.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	return p.publish(ctx, event.EventID, "site.user.registered", event.RegisteredAt, event)
}

// PublishAccountLocked publishes site.account.locked events.
func (p *EventPublisher) PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error {
	return p.publish(ctx, event.EventID, "site.account.locked", event.LockedAt, event)
}

// PublishContactMessageReceived publishes site.contact.received events.
func (p *EventPublisher) PublishContactMessageReceived(ctx context.Context, event domain.ContactMessageReceivedEvent) error {
	return p.publish(ctx, event.EventID, "site.contact.received", event.SubmittedAt, event)
}

// PublishJobApplicationReceived publishes site.application.received events.
func (p *EventPublisher) PublishJobApplicationReceived(ctx context.Context, event domain.JobApplicationReceivedEvent) error {
	return p.publish(ctx, event.EventID, "site.application.received", event.SubmittedAt, event)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
