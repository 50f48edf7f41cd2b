package ratelimit

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/pkg/constants"
)

// MemoryRateLimiter keeps fixed-window counters in process memory. Counters
// are not shared between replicas.
type MemoryRateLimiter struct {
	counters *cache.Cache
	config   *RateLimiterConfig
}

var _ service.RateLimiter = (*MemoryRateLimiter)(nil)

// NewMemoryRateLimiter creates an in-process limiter.
func NewMemoryRateLimiter(config *RateLimiterConfig) *MemoryRateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	return &MemoryRateLimiter{
		counters: cache.New(config.Window, 2*config.Window),
		config:   config,
	}
}

// Allow counts one request for identifier in scope.
func (m *MemoryRateLimiter) Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (bool, int, error) {
	limit, limited := m.config.limitFor(scope)
	if !limited {
		return true, -1, nil
	}

	key := fmt.Sprintf("%s:%s", scope, identifier)
	// Add only succeeds for a new window; the window expiry is fixed at that point.
	_ = m.counters.Add(key, 0, m.config.Window)
	count, err := m.counters.IncrementInt(key, 1)
	if err != nil {
		// The window expired between Add and IncrementInt.
		m.counters.Set(key, 1, m.config.Window)
		count = 1
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}

// Reset clears the current window for identifier in scope.
func (m *MemoryRateLimiter) Reset(ctx context.Context, scope constants.RateLimitScope, identifier string) error {
	m.counters.Delete(fmt.Sprintf("%s:%s", scope, identifier))
	return nil
}
