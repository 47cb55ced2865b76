package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// UserRepository is the relational variant of the user store.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// AddUser inserts a new account. The unique index on email turns a lost
// race between two registrations into ErrEmailTaken.
func (r *UserRepository) AddUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `
		INSERT INTO users (user_id, email, password_hash, role, refresh_token, refresh_token_expiry)
		VALUES (:user_id, :email, :password_hash, :role, :refresh_token, :refresh_token_expiry)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return storageErr("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetUserByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		// the refresh_token column defaults to '', so an empty lookup
		// would match every user that never logged in
		return nil, domain.ErrUserNotFound
	}
	return r.getUser(ctx, `SELECT * FROM users WHERE refresh_token = $1`, token)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("select user", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `
		UPDATE users SET
			email = :email,
			password_hash = :password_hash,
			role = :role,
			refresh_token = :refresh_token,
			refresh_token_expiry = :refresh_token_expiry
		WHERE user_id = :user_id
	`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return storageErr("update user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update user", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email); err != nil {
		return false, storageErr("user exists", err)
	}
	return exists, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// storageErr tags infrastructure failures so the API layer can surface
// them as a generic server-side error without leaking driver details.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
