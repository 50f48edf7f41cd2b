package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
)

type MockAuthAppService struct {
	mock.Mock
}

func (m *MockAuthAppService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthAppService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthAppService) Authenticate(ctx context.Context, token string) (*models.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}

func (m *MockAuthAppService) CreateUser(ctx context.Context, req *dto.RegisterRequest, role models.Role) (*models.User, error) {
	args := m.Called(ctx, req, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCertificateAppService struct {
	mock.Mock
}

func (m *MockCertificateAppService) Issue(ctx context.Context, req *dto.IssueCertificateRequest, caller *models.Claims, baseURL string) (*dto.IssueCertificateResponse, error) {
	args := m.Called(ctx, req, caller, baseURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IssueCertificateResponse), args.Error(1)
}

func (m *MockCertificateAppService) List(ctx context.Context, caller *models.Claims) ([]*dto.CertificateResponse, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.CertificateResponse), args.Error(1)
}

func (m *MockCertificateAppService) Revoke(ctx context.Context, certificateID string, caller *models.Claims) (*dto.RevokeCertificateResponse, error) {
	args := m.Called(ctx, certificateID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RevokeCertificateResponse), args.Error(1)
}

func (m *MockCertificateAppService) Get(ctx context.Context, certificateID string) (*dto.CertificateResponse, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CertificateResponse), args.Error(1)
}

type MockVerificationAppService struct {
	mock.Mock
}

func (m *MockVerificationAppService) Verify(ctx context.Context, certificateID string) (*dto.VerificationResponse, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VerificationResponse), args.Error(1)
}
