package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
)

type UpdateUser struct {
	repo   repo.UserRepository
	events EventPublisher
	logger *logrus.Logger
}

func NewUpdateUser(r repo.UserRepository, events EventPublisher, logger *logrus.Logger) *UpdateUser {
	return &UpdateUser{repo: r, events: events, logger: logger}
}

// Execute applies a partial update. With no field supplied it returns the
// stored projection without writing. A supplied email or username held by
// another user is a conflict, checked on the raw values before validation.
// A document change may supply only the kind or only the number; the missing
// half comes from the current document.
func (uc *UpdateUser) Execute(ctx context.Context, id string, in UpdateUserInput) (UserOutput, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return UserOutput{}, err
	}
	if u == nil {
		return UserOutput{}, entity.ErrUserNotFound
	}
	if !in.HasUpdates() {
		return ToUserOutput(u), nil
	}

	if in.Email != nil {
		other, err := uc.repo.FindByEmail(ctx, *in.Email)
		if err != nil {
			return UserOutput{}, err
		}
		if other != nil && other.ID() != u.ID() {
			return UserOutput{}, entity.ErrEmailAlreadyExists
		}
	}
	if in.Username != nil {
		other, err := uc.repo.FindByUsername(ctx, *in.Username)
		if err != nil {
			return UserOutput{}, err
		}
		if other != nil && other.ID() != u.ID() {
			return UserOutput{}, entity.ErrUsernameAlreadyExists
		}
	}

	var (
		username *vo.Username
		email    *vo.Email
		doc      *vo.Document
	)
	if in.Username != nil {
		v, err := vo.NewUsername(*in.Username)
		if err != nil {
			return UserOutput{}, err
		}
		username = &v
	}
	if in.Email != nil {
		v, err := vo.NewEmail(*in.Email)
		if err != nil {
			return UserOutput{}, err
		}
		email = &v
	}
	if in.TypeDoc != nil || in.NumberDoc != nil {
		kind := u.Document().Kind()
		if in.TypeDoc != nil {
			if kind, err = vo.ParseDocumentKind(*in.TypeDoc); err != nil {
				return UserOutput{}, err
			}
		}
		number := u.Document().Number()
		if in.NumberDoc != nil {
			number = *in.NumberDoc
		}
		v, err := vo.NewDocument(kind, number)
		if err != nil {
			return UserOutput{}, err
		}
		doc = &v
	}

	changes := changedFields(u, username, email, doc)
	u.Update(username, email, doc)
	if err := uc.repo.Save(ctx, u); err != nil {
		return UserOutput{}, err
	}

	out := ToUserOutput(u)
	publish(ctx, uc.events, uc.logger, newUserEvent(EventUserUpdated, out, changes))
	return out, nil
}

func changedFields(u *entity.User, username *vo.Username, email *vo.Email, doc *vo.Document) []string {
	var changes []string
	if username != nil && !username.Equals(u.Username()) {
		changes = append(changes, "username")
	}
	if email != nil && !email.Equals(u.Email()) {
		changes = append(changes, "email")
	}
	if doc != nil && !doc.Equals(u.Document()) {
		changes = append(changes, "document")
	}
	return changes
}
