package ports

import (
	"context"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// UserRepository defines persistence for accounts. Both the relational and
// the file-backed variants implement it with identical semantics: a read
// always reflects the most recently committed write on the same instance.
type UserRepository interface {
	AddUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	// UpdateUser persists the full user record, including refresh token state.
	UpdateUser(ctx context.Context, user *domain.User) error
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
}
