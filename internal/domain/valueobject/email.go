package valueobject

import (
	"strings"

	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

// Email is an address kept exactly as the caller supplied it.
type Email struct {
	value string
}

// NewEmail accepts local-part@domain where the domain has at least one dot.
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, apperrors.Validation("email", "is required")
	}
	if err := validate.Var(raw, "email"); err != nil {
		return Email{}, apperrors.Validation("email", "invalid email format")
	}
	at := strings.LastIndexByte(raw, '@')
	if at < 0 || !strings.Contains(raw[at+1:], ".") {
		return Email{}, apperrors.Validation("email", "invalid email format")
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }
