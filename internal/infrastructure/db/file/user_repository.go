package file

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// userRecord is the on-disk shape of a user. The domain struct hides
// credentials from JSON output, so the snapshot carries its own tags.
type userRecord struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"password_hash"`
	Role               string    `json:"role"`
	RefreshToken       string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry,omitempty"`
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:                 u.ID,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		RefreshToken:       u.RefreshToken,
		RefreshTokenExpiry: u.RefreshTokenExpiry,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:                 r.ID,
		Email:              r.Email,
		PasswordHash:       r.PasswordHash,
		Role:               r.Role,
		RefreshToken:       r.RefreshToken,
		RefreshTokenExpiry: r.RefreshTokenExpiry,
	}
}

// UserRepository stores users as a JSON list in a single file.
type UserRepository struct {
	mu   sync.Mutex
	path string
}

func NewUserRepository(dataDir string) *UserRepository {
	return &UserRepository{path: filepath.Join(dataDir, "users.json")}
}

func (r *UserRepository) AddUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	users = append(users, toUserRecord(user))
	return writeSnapshot(r.path, users)
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u userRecord) bool { return u.Email == email })
}

func (r *UserRepository) GetUserByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		// records with no active token serialize the field as empty
		return nil, domain.ErrUserNotFound
	}
	return r.find(func(u userRecord) bool { return u.RefreshToken == token })
}

func (r *UserRepository) UpdateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = toUserRecord(user)
			return writeSnapshot(r.path, users)
		}
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) UserExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) find(match func(userRecord) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return u.toDomain(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) load() ([]userRecord, error) {
	var users []userRecord
	if err := readSnapshot(r.path, &users); err != nil {
		return nil, err
	}
	return users, nil
}
