package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/interfaces/http/middleware"
	"github.com/turtacn/certverify/pkg/errors"
)

// CertificateHandler handles HTTP requests for certificate management.
type CertificateHandler struct {
	certService   service.CertificateAppService
	metrics       *monitoring.Metrics
	publicBaseURL string
}

// NewCertificateHandler creates a new CertificateHandler. When publicBaseURL is
// empty, verification links are built from the incoming request.
func NewCertificateHandler(certService service.CertificateAppService, metrics *monitoring.Metrics, publicBaseURL string) *CertificateHandler {
	return &CertificateHandler{
		certService:   certService,
		metrics:       metrics,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Issue handles POST /api/certificates.
func (h *CertificateHandler) Issue(c *gin.Context) {
	var req dto.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest("invalid request body").WithCause(err))
		return
	}

	result, err := h.certService.Issue(c.Request.Context(), &req, middleware.ClaimsFromContext(c), h.baseURL(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	h.metrics.RecordCertificateIssued()
	dto.SendSuccess(c, http.StatusCreated, result)
}

// List handles GET /api/certificates.
func (h *CertificateHandler) List(c *gin.Context) {
	result, err := h.certService.List(c.Request.Context(), middleware.ClaimsFromContext(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// Revoke handles PUT /api/certificates/:certificateId/revoke.
func (h *CertificateHandler) Revoke(c *gin.Context) {
	result, err := h.certService.Revoke(c.Request.Context(), c.Param("certificateId"), middleware.ClaimsFromContext(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	h.metrics.RecordCertificateRevoked()
	dto.SendSuccess(c, http.StatusOK, result)
}

// PDF handles GET /api/certificates/:certificateId/pdf. Rendering is not
// implemented; the certificate is returned with a placeholder message.
func (h *CertificateHandler) PDF(c *gin.Context) {
	cert, err := h.certService.Get(c.Request.Context(), c.Param("certificateId"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, dto.CertificatePDFResponse{
		Message:     dto.MessagePDFNotImplemented,
		Certificate: cert,
	})
}

func (h *CertificateHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
