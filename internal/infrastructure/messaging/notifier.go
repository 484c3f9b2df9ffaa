package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/application"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-registry/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-registry/pkg/mailer/templates"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack     Outcome = iota // handled or deliberately ignored
	Requeue                // transient failure, try again later
	Reject                 // cannot ever be handled
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "reject"
	}
}

// Sender is satisfied by mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Notifier renders and sends the email matching a user event.
type Notifier struct {
	sender  Sender
	brand   mailtpl.Brand
	logger  *logrus.Logger
	timeout time.Duration
}

func NewNotifier(sender Sender, brand mailtpl.Brand, logger *logrus.Logger) *Notifier {
	return &Notifier{sender: sender, brand: brand, logger: logger, timeout: 15 * time.Second}
}

// Handle processes one message body and reports how to settle it.
func (n *Notifier) Handle(ctx context.Context, body []byte) Outcome {
	var evt application.UserEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		helpers.LogError(n.logger, "bad message", err, nil)
		return Reject
	}
	job, ok := JobForEvent(evt, n.brand)
	if !ok {
		return Ack
	}
	fields := logrus.Fields{"event_id": evt.ID, "event_type": evt.Type, "user_id": evt.User.ID}

	helpers.EnsureRecipientAndEmail(&job)
	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		helpers.LogError(n.logger, fmt.Sprintf("render %s failed", job.Template), err, fields)
		return Reject
	}
	if subject == "" {
		subject = helpers.SubjectForTemplate(job.Template)
	}

	c, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(n.logger, "send failed", err, fields)
		return Requeue
	}
	helpers.LogInfo(n.logger, "notification sent", fields)
	return Ack
}

// JobForEvent maps an event to its email. Deletions and updates that changed
// nothing produce no email.
func JobForEvent(evt application.UserEvent, brand mailtpl.Brand) (mailer.EmailJob, bool) {
	var data mailtpl.EmailData
	switch evt.Type {
	case application.EventUserCreated:
		data = mailtpl.NewBaseEmailData(brand, mailtpl.Welcome, evt.User.Username, evt.User.Email,
			mailtpl.WithDocumentType(evt.User.TypeDoc),
			mailtpl.WithTime(evt.OccurredAt),
		)
	case application.EventUserUpdated:
		if len(evt.Changes) == 0 {
			return mailer.EmailJob{}, false
		}
		data = mailtpl.NewBaseEmailData(brand, mailtpl.ProfileUpdated, evt.User.Username, evt.User.Email,
			mailtpl.WithChanges(evt.Changes),
			mailtpl.WithTime(evt.OccurredAt),
		)
	default:
		return mailer.EmailJob{}, false
	}
	return mailer.EmailJob{
		To:       evt.User.Email,
		Template: data.Type,
		Data:     mailtpl.ToMap(data),
	}, true
}
