package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
)

const uniqueViolation = "23505"

const selectUser = `
	SELECT id, username, email, type_doc, number_doc, created_at, updated_at
	FROM users
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Save inserts the user or replaces the row with the same id. Unique index
// violations surface as the matching conflict error.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, type_doc, number_doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			type_doc = EXCLUDED.type_doc,
			number_doc = EXCLUDED.number_doc,
			updated_at = EXCLUDED.updated_at
	`, u.ID(), u.Username().String(), u.Email().String(), u.Document().Kind().String(),
		u.Document().Number(), u.CreatedAt(), u.UpdatedAt())
	return mapWriteError(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, selectUser+`WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, selectUser+`WHERE email = $1`, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, selectUser+`WHERE username = $1`, username)
}

func (r *UserRepository) FindAll(ctx context.Context, page, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+`
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, repository.Offset(page, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, query, arg).Scan(&ok)
	return ok, err
}

// scanUser rebuilds the aggregate through the value object constructors so a
// row edited outside the service cannot produce an invalid user.
func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		id, username, email, typeDoc, numberDoc string
		createdAt, updatedAt                    time.Time
	)
	if err := row.Scan(&id, &username, &email, &typeDoc, &numberDoc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	name, err := vo.NewUsername(username)
	if err != nil {
		return nil, err
	}
	mail, err := vo.NewEmail(email)
	if err != nil {
		return nil, err
	}
	kind, err := vo.ParseDocumentKind(typeDoc)
	if err != nil {
		return nil, err
	}
	doc, err := vo.NewDocument(kind, numberDoc)
	if err != nil {
		return nil, err
	}
	return entity.Rehydrate(id, name, mail, doc, createdAt.UTC(), updatedAt.UTC()), nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return entity.ErrEmailAlreadyExists
	case "users_username_key":
		return entity.ErrUsernameAlreadyExists
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
