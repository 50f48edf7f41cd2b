package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// extractBearer extracts the token from the Authorization header.
func extractBearer(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return ""
	}
	return parts[1]
}

// RequireAuth protects routes that need a signed-in user. A missing or
// malformed header is answered with 401, a token that fails verification
// with 403. The verified claims are stored on both the gin context and the
// request context.
func RequireAuth(authService service.AuthAppService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractBearer(c.GetHeader(constants.AuthorizationHeader))
		if tokenStr == "" {
			dto.SendError(c, errors.ErrMissingToken())
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			log.Warn(c.Request.Context(), "Token verification failed",
				logger.Err(err),
				logger.String("path", c.Request.URL.Path),
			)
			dto.SendError(c, err)
			return
		}

		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyClaims, claims)
		ctx = context.WithValue(ctx, constants.ContextKeyUsername, claims.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(constants.ContextKeyClaims), claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims attached by RequireAuth, or nil.
func ClaimsFromContext(c *gin.Context) *models.Claims {
	if v, ok := c.Get(string(constants.ContextKeyClaims)); ok {
		if claims, ok := v.(*models.Claims); ok {
			return claims
		}
	}
	if claims, ok := c.Request.Context().Value(constants.ContextKeyClaims).(*models.Claims); ok {
		return claims
	}
	return nil
}
