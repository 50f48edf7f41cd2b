package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// RateLimitMiddleware limits requests per client IP within scope.
// Limiter failures let the request through.
func RateLimitMiddleware(rateLimiter service.RateLimiter, scope constants.RateLimitScope, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, remaining, err := rateLimiter.Allow(c.Request.Context(), scope, clientIP)
		if err != nil {
			log.Error(c.Request.Context(), "rate limiter failed", err, logger.String("scope", string(scope)))
			c.Next() // Fail open
			return
		}

		if remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			log.Warn(c.Request.Context(), "rate limit exceeded",
				logger.String("scope", string(scope)),
				logger.String("client_ip", clientIP),
			)
			metrics.RecordRateLimitHit(scope)
			dto.SendError(c, errors.ErrRateLimitExceeded())
			return
		}

		c.Next()
	}
}
