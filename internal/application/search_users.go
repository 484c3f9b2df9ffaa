package application

import (
	"context"
	"strings"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 50
)

// UserSearcher finds user ids matching a free-text query, best match first.
type UserSearcher interface {
	SearchIDs(ctx context.Context, query string, size int) ([]string, error)
}

type SearchUsers struct {
	repo     repo.UserRepository
	searcher UserSearcher
}

func NewSearchUsers(r repo.UserRepository, searcher UserSearcher) *SearchUsers {
	return &SearchUsers{repo: r, searcher: searcher}
}

// Execute resolves search hits through the repository so results always
// reflect stored state; hits for users deleted since indexing are skipped.
func (uc *SearchUsers) Execute(ctx context.Context, query string, size int) ([]UserOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validation("q", "is required")
	}
	if uc.searcher == nil {
		return []UserOutput{}, nil
	}
	if size <= 0 {
		size = DefaultSearchSize
	}
	size = min(size, MaxSearchSize)

	ids, err := uc.searcher.SearchIDs(ctx, query, size)
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			users = append(users, u)
		}
	}
	return toUserOutputs(users), nil
}
