package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/pkg/errors"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService service.AuthAppService
	metrics     *monitoring.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthAppService, metrics *monitoring.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuthAttempt("register", "failure")
		dto.SendError(c, errors.ErrInvalidRequest("invalid request body").WithCause(err))
		return
	}

	if err := h.authService.Register(c.Request.Context(), &req); err != nil {
		h.metrics.RecordAuthAttempt("register", "failure")
		dto.SendError(c, err)
		return
	}

	h.metrics.RecordAuthAttempt("register", "success")
	dto.SendSuccess(c, http.StatusCreated, dto.MessageResponse{Message: dto.MessageUserCreated})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuthAttempt("login", "failure")
		dto.SendError(c, errors.ErrInvalidRequest("invalid request body").WithCause(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.metrics.RecordAuthAttempt("login", "failure")
		dto.SendError(c, err)
		return
	}

	h.metrics.RecordAuthAttempt("login", "success")
	dto.SendSuccess(c, http.StatusOK, result)
}
