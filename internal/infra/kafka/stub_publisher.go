package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful when no
// broker is configured, such as local development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs site.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.logEvent("site.user.registered", event.RegisteredAt, event)
	return nil
}

// PublishAccountLocked logs site.account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.logEvent("site.account.locked", event.LockedAt, event)
	return nil
}

// PublishContactMessageReceived logs site.contact.received events.
func (p *StubPublisher) PublishContactMessageReceived(_ context.Context, event domain.ContactMessageReceivedEvent) error {
	p.logEvent("site.contact.received", event.SubmittedAt, event)
	return nil
}

// PublishJobApplicationReceived logs site.application.received events.
func (p *StubPublisher) PublishJobApplicationReceived(_ context.Context, event domain.JobApplicationReceivedEvent) error {
	p.logEvent("site.application.received", event.SubmittedAt, event)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
