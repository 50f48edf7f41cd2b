package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/pkg/logger"
)

func TestNewRedisConnection(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	conn, err := NewRedisConnection(context.Background(), &config.RedisConfig{Address: s.Addr(), PoolSize: 2}, logger.NewNoopLogger())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisConnection_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	_, err = NewRedisConnection(context.Background(), &config.RedisConfig{Address: addr}, logger.NewNoopLogger())
	assert.Error(t, err)
}
