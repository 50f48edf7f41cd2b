package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// LoggingMiddleware logs incoming requests.
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int64("latency_ms", latency.Milliseconds()),
			logger.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= 500 {
			log.Warn(c.Request.Context(), "Request failed", fields...)
			return
		}
		log.Info(c.Request.Context(), "Request processed", fields...)
	}
}

// RecoveryMiddleware recovers from panics.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "Panic recovered", fmt.Errorf("panic: %v", r),
					logger.String("path", c.Request.URL.Path),
				)
				dto.SendError(c, errors.ErrInternal(dto.MessageInternalServerError))
			}
		}()
		c.Next()
	}
}
