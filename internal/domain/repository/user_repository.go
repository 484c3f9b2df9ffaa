package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
)

// UserRepository defines the persistence operations over the user aggregate.
//
// Lookups return (nil, nil) when nothing matches. FindAll pages are 1-based
// and ordered by creation time, newest first; a page past the end is empty.
// Implementations must enforce email and username uniqueness themselves
// (unique index or equivalent) since the use cases check then act.
type UserRepository interface {
	Save(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// Offset converts a 1-based page into the number of rows to skip.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
