// Package messaging moves user lifecycle events over RabbitMQ and turns them
// into notification emails on the consuming side.
package messaging

import (
	"context"

	"github.com/oksasatya/go-ddd-user-registry/internal/application"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, messageType string, body any) error
}

type EventPublisher struct {
	pub JSONPublisher
}

func NewEventPublisher(pub JSONPublisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

func (p *EventPublisher) Publish(ctx context.Context, evt application.UserEvent) error {
	return p.pub.PublishJSON(ctx, evt.Type, evt)
}

var _ application.EventPublisher = (*EventPublisher)(nil)
