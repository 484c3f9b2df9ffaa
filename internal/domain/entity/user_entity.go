package entity

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

// Domain errors for user operations.
var (
	ErrUserNotFound          = apperrors.New(apperrors.ErrNotFound, "user not found")
	ErrEmailAlreadyExists    = apperrors.New(apperrors.ErrConflict, "email already exists")
	ErrUsernameAlreadyExists = apperrors.New(apperrors.ErrConflict, "username already exists")
)

// now is swapped in tests that need deterministic clocks.
var now = time.Now

// Precision is the timestamp resolution of the aggregate. It matches what
// every store keeps (PostgreSQL timestamptz is microsecond) so a user reads
// back with the same timestamps it was returned with.
const Precision = time.Microsecond

func stamp() time.Time { return now().UTC().Truncate(Precision) }

// User is the aggregate root for the user domain.
//
// Fields are unexported so every observable state went through NewUser,
// Rehydrate or Update.
type User struct {
	id        string
	username  vo.Username
	email     vo.Email
	document  vo.Document
	createdAt time.Time
	updatedAt time.Time
}

// NewUser registers a brand new user with a fresh id.
func NewUser(username vo.Username, email vo.Email, document vo.Document) *User {
	t := stamp()
	return &User{
		id:        uuid.NewString(),
		username:  username,
		email:     email,
		document:  document,
		createdAt: t,
		updatedAt: t,
	}
}

// Rehydrate rebuilds a stored user. Only repository adapters should call it.
func Rehydrate(id string, username vo.Username, email vo.Email, document vo.Document, createdAt, updatedAt time.Time) *User {
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}
	return &User{
		id:        id,
		username:  username,
		email:     email,
		document:  document,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Update replaces the non-nil fields and always advances updatedAt.
// Inputs are trusted to come from their own constructors.
func (u *User) Update(username *vo.Username, email *vo.Email, document *vo.Document) {
	if username != nil {
		u.username = *username
	}
	if email != nil {
		u.email = *email
	}
	if document != nil {
		u.document = *document
	}
	t := stamp()
	if t.Before(u.updatedAt) {
		t = u.updatedAt
	}
	u.updatedAt = t
}

func (u *User) ID() string { return u.id }

func (u *User) Username() vo.Username { return u.username }

func (u *User) Email() vo.Email { return u.email }

func (u *User) Document() vo.Document { return u.document }

func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) UpdatedAt() time.Time { return u.updatedAt }
