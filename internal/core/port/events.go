package port

import (
	"context"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishContactMessageReceived(ctx context.Context, event domain.ContactMessageReceivedEvent) error
	PublishJobApplicationReceived(ctx context.Context, event domain.JobApplicationReceivedEvent) error
}
