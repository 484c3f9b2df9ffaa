// Package cache decorates a user repository with a Redis read-through cache
// for lookups by id.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

const keyPrefix = "user:"

type cachedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	TypeDoc   string    `json:"type_doc"`
	NumberDoc string    `json:"number_doc"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository caches FindByID results and invalidates them on writes.
// Redis failures never fail a call; the inner repository stays authoritative.
type UserRepository struct {
	repository.UserRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(inner repository.UserRepository, rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{UserRepository: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func Key(id string) string { return keyPrefix + id }

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var rec cachedUser
	found, err := helpers.RedisGetJSON(ctx, r.rdb, Key(id), &rec)
	if err != nil {
		helpers.LogWarn(r.logger, "user cache read failed", err, logrus.Fields{"user_id": id})
	}
	if found {
		if u, err := rec.toEntity(); err == nil {
			return u, nil
		}
		r.invalidate(ctx, id)
	}

	u, err := r.UserRepository.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, Key(id), fromEntity(u), r.ttl); err != nil {
		helpers.LogWarn(r.logger, "user cache write failed", err, logrus.Fields{"user_id": id})
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Save(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID())
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.UserRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, id)
	return deleted, nil
}

func (r *UserRepository) invalidate(ctx context.Context, id string) {
	if err := helpers.RedisDel(ctx, r.rdb, Key(id)); err != nil {
		helpers.LogWarn(r.logger, "user cache invalidation failed", err, logrus.Fields{"user_id": id})
	}
}

func fromEntity(u *entity.User) cachedUser {
	return cachedUser{
		ID:        u.ID(),
		Username:  u.Username().String(),
		Email:     u.Email().String(),
		TypeDoc:   u.Document().Kind().String(),
		NumberDoc: u.Document().Number(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func (c cachedUser) toEntity() (*entity.User, error) {
	username, err := vo.NewUsername(c.Username)
	if err != nil {
		return nil, err
	}
	email, err := vo.NewEmail(c.Email)
	if err != nil {
		return nil, err
	}
	kind, err := vo.ParseDocumentKind(c.TypeDoc)
	if err != nil {
		return nil, err
	}
	doc, err := vo.NewDocument(kind, c.NumberDoc)
	if err != nil {
		return nil, err
	}
	return entity.Rehydrate(c.ID, username, email, doc, c.CreatedAt, c.UpdatedAt), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
