package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

type DeleteUser struct {
	repo   repo.UserRepository
	events EventPublisher
	logger *logrus.Logger
}

func NewDeleteUser(r repo.UserRepository, events EventPublisher, logger *logrus.Logger) *DeleteUser {
	return &DeleteUser{repo: r, events: events, logger: logger}
}

// Execute returns ErrUserNotFound for an unknown id. Otherwise it reports
// whether the store removed a record, which is false only when a concurrent
// delete won the race.
func (uc *DeleteUser) Execute(ctx context.Context, id string) (bool, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, entity.ErrUserNotFound
	}

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		publish(ctx, uc.events, uc.logger, newUserEvent(EventUserDeleted, ToUserOutput(u), nil))
	}
	return deleted, nil
}
