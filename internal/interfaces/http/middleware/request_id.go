package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/certverify/pkg/constants"
)

// RequestIDMiddleware propagates the X-Request-ID header, generating one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(constants.ContextKeyRequestID), requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID))
		c.Header(constants.RequestIDHeader, requestID)
		c.Next()
	}
}
