package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/certverify/internal/domain/models"
)

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenManager) Verify(ctx context.Context, token string) (*models.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}
