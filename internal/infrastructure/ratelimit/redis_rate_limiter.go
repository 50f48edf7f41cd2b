// Package ratelimit provides fixed-window rate limiting backed by Redis or process memory.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	// Window is the length of a counting window
	Window time.Duration
	// Limits is the number of requests allowed per window for each scope.
	// Scopes without an entry are not limited.
	Limits map[constants.RateLimitScope]int
	// KeyPrefix is the Redis key prefix
	KeyPrefix string
}

// DefaultRateLimiterConfig returns the limits used when none are configured.
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Window: time.Minute,
		Limits: map[constants.RateLimitScope]int{
			constants.RateLimitScopeLogin:  10,
			constants.RateLimitScopeVerify: 120,
		},
		KeyPrefix: constants.ServiceName,
	}
}

func (c *RateLimiterConfig) limitFor(scope constants.RateLimitScope) (int, bool) {
	limit, ok := c.Limits[scope]
	return limit, ok && limit > 0
}

// fixedWindowLuaScript increments the window counter and starts its expiry on first use.
const fixedWindowLuaScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`

// RedisRateLimiter implements shared rate limiting using Redis.
type RedisRateLimiter struct {
	client   redis.UniversalClient
	script   *redis.Script
	config   *RateLimiterConfig
	fallback service.RateLimiter
	logger   logger.Logger
}

var _ service.RateLimiter = (*RedisRateLimiter)(nil)

// NewRedisRateLimiter creates a new Redis-based rate limiter. When fallback is
// non-nil it answers while Redis is unreachable; otherwise requests are allowed.
func NewRedisRateLimiter(client redis.UniversalClient, config *RateLimiterConfig, fallback service.RateLimiter, log logger.Logger) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("redis client is required"))
	}
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	rl := &RedisRateLimiter{
		client:   client,
		script:   redis.NewScript(fixedWindowLuaScript),
		config:   config,
		fallback: fallback,
		logger:   log.WithComponent("rate_limiter"),
	}

	rl.logger.Info(context.Background(), "Redis rate limiter initialized",
		logger.Duration("window", config.Window),
		logger.Bool("local_fallback", fallback != nil),
	)
	return rl, nil
}

// Allow counts one request for identifier in scope.
func (r *RedisRateLimiter) Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (bool, int, error) {
	limit, limited := r.config.limitFor(scope)
	if !limited {
		return true, -1, nil
	}

	key := r.key(scope, identifier)
	count, err := r.script.Run(ctx, r.client, []string{key}, r.config.Window.Milliseconds()).Int64()
	if err != nil {
		r.logger.Warn(ctx, "Redis rate limit check failed",
			logger.String("scope", string(scope)),
			logger.Err(err),
		)
		if r.fallback != nil {
			return r.fallback.Allow(ctx, scope, identifier)
		}
		return true, -1, nil
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= limit, remaining, nil
}

// Reset clears the current window for identifier in scope.
func (r *RedisRateLimiter) Reset(ctx context.Context, scope constants.RateLimitScope, identifier string) error {
	if err := r.client.Del(ctx, r.key(scope, identifier)).Err(); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}

func (r *RedisRateLimiter) key(scope constants.RateLimitScope, identifier string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", r.config.KeyPrefix, scope, identifier)
}
