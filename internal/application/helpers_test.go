package application

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-user-registry/internal/testutil"
)

var errStoreDown = errors.New("store unavailable")

// spyRepo counts writes and can fail selected operations.
type spyRepo struct {
	*memory.UserRepository
	saves     int
	failSave  error
	failFind  error
	failExist error
	failList  error
}

func newSpyRepo() *spyRepo {
	return &spyRepo{UserRepository: memory.NewUserRepository()}
}

func (r *spyRepo) Save(ctx context.Context, u *entity.User) error {
	if r.failSave != nil {
		return r.failSave
	}
	r.saves++
	return r.UserRepository.Save(ctx, u)
}

func (r *spyRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	return r.UserRepository.FindByID(ctx, id)
}

func (r *spyRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.failExist != nil {
		return false, r.failExist
	}
	return r.UserRepository.ExistsByEmail(ctx, email)
}

func (r *spyRepo) FindAll(ctx context.Context, page, limit int) ([]*entity.User, error) {
	if r.failList != nil {
		return nil, r.failList
	}
	return r.UserRepository.FindAll(ctx, page, limit)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, evt UserEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchIDs(ctx context.Context, query string, size int) ([]string, error) {
	args := m.Called(ctx, query, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedUsers(t *testing.T, repo *spyRepo, n int) []*entity.User {
	t.Helper()
	users := testutil.Users(t, n)
	for _, u := range users {
		require.NoError(t, repo.UserRepository.Save(context.Background(), u))
	}
	return users
}

func ptr(s string) *string { return &s }

func validCreateInput() CreateUserInput {
	return CreateUserInput{
		Username:  "john_doe",
		Email:     "john@example.com",
		TypeDoc:   "CPF",
		NumberDoc: "111.444.777-35",
	}
}
