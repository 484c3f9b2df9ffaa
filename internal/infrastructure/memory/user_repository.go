// Package memory is a process-local UserRepository used by tests and by the
// server when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

type record struct {
	user *entity.User
	seq  uint64
}

type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]record
	seq  uint64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]record)}
}

// Save upserts by id and rejects email/username values held by another id,
// mirroring the unique indexes of the SQL store.
func (r *UserRepository) Save(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// email clashes take precedence whatever the map order
	usernameTaken := false
	for id, rec := range r.byID {
		if id == u.ID() {
			continue
		}
		if rec.user.Email().Equals(u.Email()) {
			return entity.ErrEmailAlreadyExists
		}
		if rec.user.Username().Equals(u.Username()) {
			usernameTaken = true
		}
	}
	if usernameTaken {
		return entity.ErrUsernameAlreadyExists
	}

	rec, ok := r.byID[u.ID()]
	if !ok {
		r.seq++
		rec.seq = r.seq
	}
	rec.user = clone(u)
	r.byID[u.ID()] = rec
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.byID[id]; ok {
		return clone(rec.user), nil
	}
	return nil, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Email().String() == email }), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Username().String() == username }), nil
}

func (r *UserRepository) FindAll(_ context.Context, page, limit int) ([]*entity.User, error) {
	r.mu.RLock()
	recs := make([]record, 0, len(r.byID))
	for _, rec := range r.byID {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].user.CreatedAt(), recs[j].user.CreatedAt()
		if !a.Equal(b) {
			return a.After(b)
		}
		return recs[i].seq > recs[j].seq
	})

	out := make([]*entity.User, 0)
	if limit <= 0 {
		return out, nil
	}
	skip := repository.Offset(page, limit)
	for i := skip; i < len(recs) && len(out) < limit; i++ {
		out = append(out, clone(recs[i].user))
	}
	return out, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u != nil, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.FindByUsername(ctx, username)
	return u != nil, err
}

// Ping always succeeds; it lets the health module treat every store alike.
func (r *UserRepository) Ping(context.Context) error { return nil }

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *UserRepository) findFirst(match func(*entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byID {
		if match(rec.user) {
			return clone(rec.user)
		}
	}
	return nil
}

func clone(u *entity.User) *entity.User {
	c := *u
	return &c
}

var _ repository.UserRepository = (*UserRepository)(nil)
