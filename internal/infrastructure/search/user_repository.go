package search

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

// Indexer is the write side of the users index.
type Indexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
}

// UserRepository mirrors successful writes into the search index. Index
// failures are logged; the store remains the source of truth.
type UserRepository struct {
	repository.UserRepository
	index  Indexer
	logger *logrus.Logger
}

func NewUserRepository(inner repository.UserRepository, index Indexer, logger *logrus.Logger) *UserRepository {
	return &UserRepository{UserRepository: inner, index: index, logger: logger}
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Save(ctx, u); err != nil {
		return err
	}
	if err := r.index.Index(ctx, u); err != nil {
		helpers.LogWarn(r.logger, "es index failed", err, logrus.Fields{"user_id": u.ID()})
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.UserRepository.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if err := r.index.Remove(ctx, id); err != nil {
		helpers.LogWarn(r.logger, "es remove failed", err, logrus.Fields{"user_id": id})
	}
	return true, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
