package messaging

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

// Handler processes one message body.
type Handler interface {
	Handle(ctx context.Context, body []byte) Outcome
}

// ErrDeliveriesClosed is returned by Consume when the broker closes the
// delivery channel, typically after a connection or channel failure.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Consume drains msgs, settling each delivery by the handler's outcome. It
// returns nil once ctx is done and ErrDeliveriesClosed if msgs closes first.
func Consume(ctx context.Context, msgs <-chan amqp.Delivery, h Handler, logger *logrus.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			outcome := h.Handle(ctx, msg.Body)
			if err := settle(msg, outcome); err != nil {
				helpers.LogWarn(logger, "settle delivery failed", err, logrus.Fields{
					"delivery_tag": msg.DeliveryTag,
					"outcome":      outcome.String(),
				})
			}
		}
	}
}

func settle(msg amqp.Delivery, o Outcome) error {
	switch o {
	case Ack:
		return msg.Ack(false)
	case Requeue:
		return msg.Nack(false, true)
	default:
		return msg.Nack(false, false)
	}
}
