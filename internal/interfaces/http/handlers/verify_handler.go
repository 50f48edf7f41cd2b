package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/pkg/errors"
)

// VerifyHandler serves the public verification endpoint.
type VerifyHandler struct {
	verifyService service.VerificationAppService
	metrics       *monitoring.Metrics
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(verifyService service.VerificationAppService, metrics *monitoring.Metrics) *VerifyHandler {
	return &VerifyHandler{
		verifyService: verifyService,
		metrics:       metrics,
	}
}

// Verify handles GET /api/verify/:certificateId. Unknown identifiers get a
// 404 in the verification shape rather than the generic error body.
func (h *VerifyHandler) Verify(c *gin.Context) {
	result, err := h.verifyService.Verify(c.Request.Context(), c.Param("certificateId"))
	if err != nil {
		if errors.IsNotFound(err) {
			h.metrics.RecordVerification("not_found")
			c.JSON(http.StatusNotFound, dto.VerificationResponse{
				Valid:   false,
				Message: dto.MessageCertificateNotFound,
			})
			return
		}
		h.metrics.RecordVerification("error")
		dto.SendError(c, err)
		return
	}

	h.metrics.RecordVerification(result.Certificate.Status)
	dto.SendSuccess(c, http.StatusOK, result)
}
