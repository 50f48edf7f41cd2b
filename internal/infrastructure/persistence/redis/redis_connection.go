// Package redis provides Redis connection management for the shared rate limit counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/pkg/logger"
)

// RedisConnection manages the Redis client lifecycle and health checks.
type RedisConnection struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisConnection creates a client for cfg and verifies connectivity.
func NewRedisConnection(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	log = log.WithComponent("redis")

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.Address},
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	conn := &RedisConnection{client: client, logger: log}
	if err := conn.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info(ctx, "Redis connection initialized successfully", logger.String("address", cfg.Address))
	return conn, nil
}

// NewRedisConnectionFromClient wraps an existing client.
func NewRedisConnectionFromClient(client redis.UniversalClient, log logger.Logger) *RedisConnection {
	return &RedisConnection{client: client, logger: log.WithComponent("redis")}
}

// GetClient returns the underlying client.
func (c *RedisConnection) GetClient() redis.UniversalClient {
	return c.client
}

// Ping verifies Redis connectivity.
func (c *RedisConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.client.Ping(pingCtx).Err(); err != nil {
		c.logger.Error(ctx, "Redis ping failed", err)
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the client.
func (c *RedisConnection) Close() error {
	return c.client.Close()
}
