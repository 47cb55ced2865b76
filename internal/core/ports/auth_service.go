package ports

import (
	"context"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// TokenPair is what every authentication flow returns: a short-lived signed
// access token and an opaque refresh token with a server-side expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService covers registration, login and refresh-token rotation.
type AuthService interface {
	// Register validates input, stores a new user and immediately issues a
	// token pair, so registering behaves like a first login.
	Register(ctx context.Context, email, password, role string) (*domain.User, *TokenPair, error)
	// Login verifies credentials and issues a fresh token pair, rotating
	// the stored refresh token.
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// Refresh exchanges a valid refresh token for a new pair. The presented
	// token is invalidated by the rotation.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)
}
