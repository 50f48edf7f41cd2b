package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/certverify/internal/domain/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) Save(ctx context.Context, cert *models.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateRepository) FindByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) FindAll(ctx context.Context) ([]*models.Certificate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) Revoke(ctx context.Context, certificateID string) (*models.Certificate, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) MarkExpired(ctx context.Context, certificateID string) (bool, error) {
	args := m.Called(ctx, certificateID)
	return args.Bool(0), args.Error(1)
}
