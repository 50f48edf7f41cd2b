package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/service/mocks"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

type authFixture struct {
	users  *mocks.MockUserRepository
	hasher *mocks.MockPasswordHasher
	tokens *mocks.MockTokenManager
	svc    AuthAppService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  new(mocks.MockUserRepository),
		hasher: new(mocks.MockPasswordHasher),
		tokens: new(mocks.MockTokenManager),
	}
	f.svc = NewAuthAppService(f.users, f.hasher, f.tokens, logger.NewNoopLogger())
	return f
}

func TestAuthAppService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates issuer", func(t *testing.T) {
		f := newAuthFixture()
		f.hasher.On("Hash", "s3cret").Return("hashed", nil)
		f.users.On("Save", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" && u.PasswordHash == "hashed" &&
				u.Role == models.RoleIssuer && u.Organization == "Acme"
		})).Return(nil)

		err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "s3cret", Organization: "Acme"})
		require.NoError(t, err)
		f.users.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := newAuthFixture()
		f.hasher.On("Hash", "pw").Return("hashed", nil)
		f.users.On("Save", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", errors.ErrDuplicateKey))

		err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "pw"})
		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeDuplicateUsername, appErr.Code())
		assert.Equal(t, 400, appErr.HTTPStatus())
		assert.Equal(t, "Username already exists", appErr.Message())
	})

	t.Run("missing password", func(t *testing.T) {
		f := newAuthFixture()

		err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "alice"})
		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeInvalidRequest, appErr.Code())
		f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthAppService_CreateUserRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.CreateUser(context.Background(), &dto.RegisterRequest{Username: "root", Password: "pw"}, models.Role("owner"))
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest("")))
}

func TestAuthAppService_Login(t *testing.T) {
	ctx := context.Background()
	user := models.NewUser("alice", "hashed", "Acme", models.RoleIssuer)

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		exp := time.Now().Add(24 * time.Hour)
		f.users.On("FindByUsername", ctx, "alice").Return(user, nil)
		f.hasher.On("Compare", "hashed", "s3cret").Return(nil)
		f.tokens.On("Issue", ctx, user).Return("signed.jwt.token", exp, nil)

		resp, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, dto.UserDTO{Username: "alice", Role: "issuer", Organization: "Acme"}, resp.User)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByUsername", ctx, "bob").Return(nil, errors.ErrUserNotFound("bob"))

		_, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "bob", Password: "x"})
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials()))
		f.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByUsername", ctx, "alice").Return(user, nil)
		f.hasher.On("Compare", "hashed", "nope").Return(fmt.Errorf("mismatch"))

		_, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "nope"})
		assert.Equal(t, 401, errors.HTTPStatus(err))
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials()))
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByUsername", ctx, "alice").Return(nil, errors.ErrDatabaseOperation)

		_, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "pw"})
		assert.Equal(t, 500, errors.HTTPStatus(err))
	})
}

func TestAuthAppService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Authenticate(ctx, "")
		assert.True(t, errors.Is(err, errors.ErrMissingToken()))
	})

	t.Run("valid token", func(t *testing.T) {
		f := newAuthFixture()
		claims := &models.Claims{UserID: "u-1", Username: "alice", Role: "issuer"}
		f.tokens.On("Verify", ctx, "tok").Return(claims, nil)

		got, err := f.svc.Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, claims, got)
	})

	t.Run("verification failure maps to invalid token", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.On("Verify", ctx, "bad").Return(nil, fmt.Errorf("signature is invalid"))

		_, err := f.svc.Authenticate(ctx, "bad")
		assert.Equal(t, 403, errors.HTTPStatus(err))
	})
}
