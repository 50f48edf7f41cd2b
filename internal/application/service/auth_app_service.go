// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/repository"
	domainService "github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
	"github.com/turtacn/certverify/pkg/utils"
)

// AuthAppService defines the interface for the authentication application service
type AuthAppService interface {
	// Register creates a user with the issuer role.
	Register(ctx context.Context, req *dto.RegisterRequest) error

	// Login checks credentials and issues a bearer token.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// Authenticate validates a bearer token and returns its claims.
	Authenticate(ctx context.Context, token string) (*models.Claims, error)

	// CreateUser creates a user with an explicit role.
	CreateUser(ctx context.Context, req *dto.RegisterRequest, role models.Role) (*models.User, error)
}

// authAppServiceImpl is the concrete implementation of AuthAppService
type authAppServiceImpl struct {
	userRepo     repository.UserRepository
	hasher       domainService.PasswordHasher
	tokenManager domainService.TokenManager
	logger       logger.Logger
}

// NewAuthAppService creates a new instance of AuthAppService
func NewAuthAppService(
	userRepo repository.UserRepository,
	hasher domainService.PasswordHasher,
	tokenManager domainService.TokenManager,
	log logger.Logger,
) AuthAppService {
	return &authAppServiceImpl{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       log.WithComponent("auth_service"),
	}
}

// Register implements self-registration. New users always get the issuer role.
func (s *authAppServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) error {
	_, err := s.CreateUser(ctx, req, models.RoleIssuer)
	return err
}

// CreateUser validates the request, hashes the password and stores the user.
func (s *authAppServiceImpl) CreateUser(ctx context.Context, req *dto.RegisterRequest, role models.Role) (*models.User, error) {
	if req == nil {
		return nil, errors.ErrInvalidRequest("request body is required")
	}
	if err := utils.ValidateStruct(req); err != nil {
		s.logger.Debug(ctx, "Invalid registration request", logger.Err(err))
		return nil, err
	}
	if !role.Valid() {
		return nil, errors.ErrInvalidRequest("role must be one of: admin issuer")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error(ctx, "Failed to hash password", err, logger.String("username", req.Username))
		return nil, errors.ErrInternal("failed to hash password").WithCause(err)
	}

	user := models.NewUser(req.Username, hash, req.Organization, role)
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.IsDuplicateKey(err) {
			return nil, errors.ErrDuplicateUsername(req.Username)
		}
		return nil, err
	}

	s.logger.Info(ctx, "User registered",
		logger.String("username", user.Username),
		logger.String("role", string(user.Role)),
	)
	return user, nil
}

// Login verifies the password and returns a signed token with the user's public profile.
func (s *authAppServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req == nil {
		return nil, errors.ErrInvalidRequest("request body is required")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Info(ctx, "Login rejected: unknown user", logger.String("username", req.Username))
			return nil, errors.ErrInvalidCredentials()
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Info(ctx, "Login rejected: password mismatch", logger.String("username", req.Username))
		return nil, errors.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenManager.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "User logged in",
		logger.String("username", user.Username),
		logger.Time("expires_at", expiresAt),
	)

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserDTO{
			Username:     user.Username,
			Role:         string(user.Role),
			Organization: user.Organization,
		},
	}, nil
}

// Authenticate validates token. Every failure is reported as invalid_token.
func (s *authAppServiceImpl) Authenticate(ctx context.Context, token string) (*models.Claims, error) {
	if token == "" {
		return nil, errors.ErrMissingToken()
	}
	claims, err := s.tokenManager.Verify(ctx, token)
	if err != nil {
		if appErr, ok := errors.As(err); ok && appErr.Code() == errors.CodeInvalidToken {
			return nil, appErr
		}
		return nil, errors.ErrInvalidToken().WithCause(err)
	}
	return claims, nil
}
