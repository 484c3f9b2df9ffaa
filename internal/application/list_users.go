package application

import (
	"context"

	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type ListUsers struct {
	repo repo.UserRepository
}

func NewListUsers(r repo.UserRepository) *ListUsers {
	return &ListUsers{repo: r}
}

// Execute returns one page of users, newest first. Non-positive page or limit
// fall back to the defaults.
func (uc *ListUsers) Execute(ctx context.Context, page, limit int) ([]UserOutput, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	users, err := uc.repo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return toUserOutputs(users), nil
}
