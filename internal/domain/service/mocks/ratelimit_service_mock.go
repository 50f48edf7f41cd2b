package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/certverify/pkg/constants"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (bool, int, error) {
	args := m.Called(ctx, scope, identifier)
	return args.Bool(0), args.Int(1), args.Error(2)
}
