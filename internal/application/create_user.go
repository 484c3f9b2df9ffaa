package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
)

type CreateUser struct {
	repo   repo.UserRepository
	events EventPublisher
	logger *logrus.Logger
}

func NewCreateUser(r repo.UserRepository, events EventPublisher, logger *logrus.Logger) *CreateUser {
	return &CreateUser{repo: r, events: events, logger: logger}
}

// Execute rejects an email or username already in use (email checked first),
// then validates the input, stores the new user and returns its projection.
// Uniqueness is checked on the raw values, so a taken email wins over any
// validation error.
func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (UserOutput, error) {
	exists, err := uc.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return UserOutput{}, err
	}
	if exists {
		return UserOutput{}, entity.ErrEmailAlreadyExists
	}
	exists, err = uc.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return UserOutput{}, err
	}
	if exists {
		return UserOutput{}, entity.ErrUsernameAlreadyExists
	}

	username, err := vo.NewUsername(in.Username)
	if err != nil {
		return UserOutput{}, err
	}
	email, err := vo.NewEmail(in.Email)
	if err != nil {
		return UserOutput{}, err
	}
	kind, err := vo.ParseDocumentKind(in.TypeDoc)
	if err != nil {
		return UserOutput{}, err
	}
	doc, err := vo.NewDocument(kind, in.NumberDoc)
	if err != nil {
		return UserOutput{}, err
	}

	u := entity.NewUser(username, email, doc)
	if err := uc.repo.Save(ctx, u); err != nil {
		return UserOutput{}, err
	}

	out := ToUserOutput(u)
	publish(ctx, uc.events, uc.logger, newUserEvent(EventUserCreated, out, nil))
	return out, nil
}
