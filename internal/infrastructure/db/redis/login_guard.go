package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guardWindow      = 15 * time.Minute
	guardMaxAttempts = 10
)

// LoginGuard throttles credential guessing backed by Redis.
// Key format: login_attempts:<email>
type LoginGuard struct {
	client *redis.Client
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
func NewLoginGuard(client *redis.Client) *LoginGuard {
	return &LoginGuard{client: client}
}

// Blocked reports whether the account has exhausted its allowed failed
// logins for the current window.
func (g *LoginGuard) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(email)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n >= guardMaxAttempts, nil
}

// RecordFailure counts one failed attempt. The window starts at the
// first failure and is not extended by later ones.
func (g *LoginGuard) RecordFailure(ctx context.Context, email string) error {
	key := g.key(email)
	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login guard record: %w", err)
	}
	if n == 1 {
		if err := g.client.Expire(ctx, key, guardWindow).Err(); err != nil {
			return fmt.Errorf("login guard expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	return g.client.Del(ctx, g.key(email)).Err()
}

func (g *LoginGuard) key(email string) string {
	return "login_attempts:" + email
}
