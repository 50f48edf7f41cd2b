package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/certverify/pkg/errors"
)

// Response messages shared by handlers and the admin CLI.
const (
	MessageUserCreated              = "User created successfully"
	MessageCertificateRevoked       = "Certificate revoked successfully"
	MessageCertificateValid         = "Certificate is valid"
	MessageCertificateRevokedNotice = "This certificate has been revoked"
	MessageCertificateNotFound      = "Certificate not found"
	MessagePDFNotImplemented        = "PDF generation endpoint - not implemented"
	MessageInternalServerError      = "Internal server error"
)

// ErrorResponse is the error body: {"error": "..."} plus optional details.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse converts err into a status code and body. Errors that are
// not AppErrors become a generic 500.
func NewErrorResponse(err error) (int, *ErrorResponse) {
	if appErr, ok := errors.As(err); ok {
		return appErr.HTTPStatus(), &ErrorResponse{
			Error:   appErr.Message(),
			Code:    string(appErr.Code()),
			Details: appErr.Details(),
		}
	}
	return http.StatusInternalServerError, &ErrorResponse{
		Error: MessageInternalServerError,
		Code:  string(errors.CodeInternal),
	}
}

// SendError writes err as JSON and aborts the handler chain.
func SendError(c *gin.Context, err error) {
	status, body := NewErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}

// SendSuccess writes data as JSON.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
