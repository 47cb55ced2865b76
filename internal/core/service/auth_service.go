package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 2 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthService implements registration, login and refresh-token rotation.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger

	// now is swapped in tests to simulate token expiry.
	now func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register validates the input, persists a new user and issues a first
// token pair, so a fresh registration behaves exactly like a login.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.User, *ports.TokenPair, error) {
	if !domain.ValidEmail(email) || password == "" || !domain.ValidRole(role) {
		return nil, nil, domain.ErrInvalidInput
	}

	taken, err := s.repo.UserExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, pair, nil
}

// Login verifies credentials and rotates the refresh token. Unknown email
// and wrong password produce the same error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, pair, nil
}

// Authenticate looks the user up by email and checks the password hash.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a new pair. The rotation
// persists through the user record, so the presented token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
	user, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ValidateRefreshToken resolves the user holding the token. An expired but
// matching token is invalid, never silently extended.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	user, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.RefreshTokenExpiry.Before(s.now()) {
		return nil, domain.ErrInvalidRefreshToken
	}
	return user, nil
}

// IssueTokens mints an access token and a fresh refresh token, persisting
// the latter on the user record. Any previously issued refresh token is
// overwritten and therefore invalidated.
func (s *AuthService) IssueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	user.RefreshToken = refresh
	user.RefreshTokenExpiry = s.now().Add(s.refreshTTL)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newRefreshToken returns a random 128-bit value, base64-encoded. The
// refresh token is an opaque secret; its expiry lives server-side.
func newRefreshToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
