package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-user-registry/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-registry/pkg/mailer/templates"
)

// SubjectForTemplate is the fallback subject when a template renders none.
func SubjectForTemplate(name string) string {
	switch strings.ToLower(name) {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.ProfileUpdated:
		return "Your profile was updated"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
