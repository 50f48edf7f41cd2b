package serverlite

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/pkg/constants"
)

// MintToken signs a token for an arbitrary identity without a stored user.
// expiresAt may lie in the past to produce an expired token.
func (s *Server) MintToken(username string, role models.Role, expiresAt time.Time) (string, error) {
	claims := models.Claims{
		UserID:   uuid.NewString(),
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.DefaultTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-s.ttl)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}
