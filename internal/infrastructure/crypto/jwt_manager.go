// Package crypto provides token signing, password hashing and secret loading for certverify.
package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// JWTManager issues and verifies HS256 bearer tokens with a shared secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	logger logger.Logger
	now    func() time.Time
}

var _ service.TokenManager = (*JWTManager)(nil)

// NewJWTManager creates a manager. An empty issuer disables the iss check.
func NewJWTManager(secret string, ttl time.Duration, issuer string, log logger.Logger) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		logger: log.WithComponent("jwt_manager"),
		now:    time.Now,
	}
}

// Issue signs a token carrying the user's ID, username and role.
func (m *JWTManager) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := &models.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		m.logger.Error(ctx, "Failed to sign token", err, logger.String("username", user.Username))
		return "", time.Time{}, errors.ErrInternal("failed to sign token").WithCause(err)
	}

	return token, expiresAt, nil
}

// Verify parses tokenString, accepting only HS256 tokens signed with the
// configured secret that have not expired.
func (m *JWTManager) Verify(ctx context.Context, tokenString string) (*models.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		m.logger.Debug(ctx, "Token rejected", logger.Err(err))
		return nil, errors.ErrInvalidToken().WithCause(err)
	}

	return claims, nil
}
