package application

import (
	"context"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

type GetUser struct {
	repo repo.UserRepository
}

func NewGetUser(r repo.UserRepository) *GetUser {
	return &GetUser{repo: r}
}

func (uc *GetUser) Execute(ctx context.Context, id string) (UserOutput, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return UserOutput{}, err
	}
	if u == nil {
		return UserOutput{}, entity.ErrUserNotFound
	}
	return ToUserOutput(u), nil
}
