package application

import (
	"time"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
)

// CreateUserInput carries the raw registration fields.
type CreateUserInput struct {
	Username  string
	Email     string
	TypeDoc   string
	NumberDoc string
}

// UpdateUserInput carries the fields to change; nil means untouched.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	TypeDoc   *string
	NumberDoc *string
}

// HasUpdates reports whether any field was supplied.
func (in UpdateUserInput) HasUpdates() bool {
	return in.Username != nil || in.Email != nil || in.TypeDoc != nil || in.NumberDoc != nil
}

// UserOutput is the read-only projection returned by every use case.
type UserOutput struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	TypeDoc   string    `json:"type_doc"`
	NumberDoc string    `json:"number_doc"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserOutput(u *entity.User) UserOutput {
	return UserOutput{
		ID:        u.ID(),
		Username:  u.Username().String(),
		Email:     u.Email().String(),
		TypeDoc:   u.Document().Kind().String(),
		NumberDoc: u.Document().Number(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func toUserOutputs(users []*entity.User) []UserOutput {
	out := make([]UserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserOutput(u))
	}
	return out
}
