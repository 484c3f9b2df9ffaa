package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types published after a successful write.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the message body put on the events queue.
type UserEvent struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	User       UserOutput `json:"user"`
	Changes    []string   `json:"changes,omitempty"`
}

// EventPublisher delivers user lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt UserEvent) error
}

func newUserEvent(typ string, u UserOutput, changes []string) UserEvent {
	return UserEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		User:       u,
		Changes:    changes,
	}
}

// publish runs after the write has committed, so a delivery failure is
// logged rather than returned.
func publish(ctx context.Context, events EventPublisher, logger *logrus.Logger, evt UserEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, evt); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event_id":   evt.ID,
			"event_type": evt.Type,
			"user_id":    evt.User.ID,
		}).Warn("publish user event failed")
	}
}
