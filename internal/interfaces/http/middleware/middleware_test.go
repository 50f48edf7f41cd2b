package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/service/mocks"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/infrastructure/ratelimit"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", extractBearer("Bearer abc"))
	assert.Equal(t, "abc", extractBearer("bearer abc"))
	assert.Empty(t, extractBearer(""))
	assert.Empty(t, extractBearer("abc"))
	assert.Empty(t, extractBearer("Basic abc"))
	assert.Empty(t, extractBearer("Bearer a b"))
}

func TestRequireAuth(t *testing.T) {
	authSvc := new(mocks.MockAuthAppService)
	claims := &models.Claims{UserID: "u-1", Username: "alice", Role: models.RoleIssuer}
	authSvc.On("Authenticate", mock.Anything, "good").Return(claims, nil)
	authSvc.On("Authenticate", mock.Anything, "bad").Return(nil, errors.ErrInvalidToken())

	router := gin.New()
	router.Use(RequireAuth(authSvc, logger.NewNoopLogger()))
	router.GET("/me", func(c *gin.Context) {
		got := ClaimsFromContext(c)
		fromCtx, _ := c.Request.Context().Value(constants.ContextKeyUsername).(string)
		c.JSON(http.StatusOK, gin.H{"username": got.Username, "ctx": fromCtx})
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Access token required","code":"missing_token"}`, w.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token good")
		assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := serve(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"alice","ctx":"alice"}`, w.Body.String())
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects after the limit", func(t *testing.T) {
		metrics := monitoring.NewMetrics(nil)
		limiter := ratelimit.NewMemoryRateLimiter(&ratelimit.RateLimiterConfig{
			Window: time.Minute,
			Limits: map[constants.RateLimitScope]int{constants.RateLimitScopeLogin: 2},
		})
		router := gin.New()
		router.Use(RateLimitMiddleware(limiter, constants.RateLimitScopeLogin, metrics, logger.NewNoopLogger()))
		router.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 2; i++ {
			w := serve(router, httptest.NewRequest(http.MethodPost, "/login", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
		w := serve(router, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RateLimitHits.WithLabelValues("login")))
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		limiter := new(mocks.MockRateLimiter)
		limiter.On("Allow", mock.Anything, constants.RateLimitScopeVerify, mock.Anything).
			Return(false, 0, fmt.Errorf("redis down"))
		router := gin.New()
		router.Use(RateLimitMiddleware(limiter, constants.RateLimitScopeVerify, monitoring.NewMetrics(nil), logger.NewNoopLogger()))
		router.GET("/verify", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/verify", nil)).Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(constants.ContextKeyRequestID).(string)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.RequestIDHeader, "req-123")
	w := serve(router, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(constants.RequestIDHeader))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(constants.RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger.NewNoopLogger()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestObservabilityMiddleware(t *testing.T) {
	metrics := monitoring.NewMetrics(nil)
	router := gin.New()
	router.Use(ObservabilityMiddleware(otel.Tracer("test-tracer"), metrics))
	router.Use(LoggingMiddleware(logger.NewNoopLogger()))
	router.GET("/api/verify/:certificateId", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/api/verify/CERT-1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/verify/CERT-2", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/verify/:certificateId", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "not_found", "404")))
}
