// Package ratelimit limits failed logins per email with Redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/apperrors"
)

const (
	DefaultMaxAttempts = 5
	DefaultCooldown    = 15 * time.Minute

	keyPrefix = "login:"
)

var ErrRedisUnavailable = errors.New("redis unavailable")

type Config struct {
	// Failed logins allowed in one window
	// If not set than default is used
	MaxAttempts int

	// Window length, starts with the first failure
	// If not set than default is used
	Cooldown time.Duration
}

type LoginThrottle struct {
	redis       redis.UniversalClient
	maxAttempts int
	cooldown    time.Duration
}

func New(client redis.UniversalClient, cfg Config) *LoginThrottle {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}

	return &LoginThrottle{
		redis:       client,
		maxAttempts: cfg.MaxAttempts,
		cooldown:    cfg.Cooldown,
	}
}

// Connect to redis and make sure it answers
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return client, nil
}

// Fail with apperrors.ErrTooManyAttempts if the email used up its failures
func (l *LoginThrottle) Check(ctx context.Context, email string) error {
	count, err := l.redis.Get(ctx, key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.maxAttempts) {
		return apperrors.ErrTooManyAttempts
	}

	return nil
}

// Record failed login
func (l *LoginThrottle) Fail(ctx context.Context, email string) error {
	k := key(email)

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed window: ttl is set by the first failure only
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return nil
}

// Forget failures, called after successful login
func (l *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Emails are matched exactly by storage, so the counter is too
func key(email string) string {
	return keyPrefix + email
}
