package valueobject

import (
	"regexp"

	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Username is a 3-50 character handle made of letters, digits and underscores.
type Username struct {
	value string
}

func NewUsername(raw string) (Username, error) {
	if raw == "" {
		return Username{}, apperrors.Validation("username", "is required")
	}
	if err := validate.Var(raw, "min=3,max=50"); err != nil {
		return Username{}, apperrors.Validation("username", "must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(raw) {
		return Username{}, apperrors.Validation("username", "can only contain letters, numbers and underscores")
	}
	return Username{value: raw}, nil
}

func (u Username) String() string { return u.value }

func (u Username) Equals(other Username) bool { return u.value == other.value }
