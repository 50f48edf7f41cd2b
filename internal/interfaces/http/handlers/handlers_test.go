package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/service/mocks"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	authSvc := new(mocks.MockAuthAppService)
	metrics := monitoring.NewMetrics(nil)
	h := NewAuthHandler(authSvc, metrics)
	router := gin.New()
	router.POST("/api/register", h.Register)

	authSvc.On("Register", mock.Anything, &dto.RegisterRequest{Username: "alice", Password: "pw"}).Return(nil).Once()
	w := doJSON(router, http.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User created successfully"}`, w.Body.String())

	authSvc.On("Register", mock.Anything, mock.Anything).Return(errors.ErrDuplicateUsername("alice")).Once()
	w = doJSON(router, http.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Username already exists"`)

	w = doJSON(router, http.MethodPost, "/api/register", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("register", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("register", "failure")))
}

func TestAuthHandler_Login(t *testing.T) {
	authSvc := new(mocks.MockAuthAppService)
	h := NewAuthHandler(authSvc, monitoring.NewMetrics(nil))
	router := gin.New()
	router.POST("/api/login", h.Login)

	authSvc.On("Login", mock.Anything, &dto.LoginRequest{Username: "alice", Password: "pw"}).Return(&dto.LoginResponse{
		Token: "tok",
		User:  dto.UserDTO{Username: "alice", Role: "issuer", Organization: "Acme"},
	}, nil)
	authSvc.On("Login", mock.Anything, &dto.LoginRequest{Username: "alice", Password: "wrong"}).Return(nil, errors.ErrInvalidCredentials())

	w := doJSON(router, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok","user":{"username":"alice","role":"issuer","organization":"Acme"}}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestCertificateHandler(t *testing.T) {
	certSvc := new(mocks.MockCertificateAppService)
	metrics := monitoring.NewMetrics(nil)
	router := gin.New()

	h := NewCertificateHandler(certSvc, metrics, "")
	router.POST("/api/certificates", h.Issue)
	router.GET("/api/certificates", h.List)
	router.PUT("/api/certificates/:certificateId/revoke", h.Revoke)
	router.GET("/api/certificates/:certificateId/pdf", h.PDF)

	t.Run("issue builds the link from the request host", func(t *testing.T) {
		certSvc.On("Issue", mock.Anything, mock.Anything, mock.Anything, "http://example.com").Return(&dto.IssueCertificateResponse{
			CertificateResponse: dto.CertificateResponse{CertificateID: "CERT-1", Status: "active"},
			QRCode:              "data:image/png;base64,AA==",
		}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/certificates", map[string]string{"recipientName": "Jane"})
		require.Equal(t, http.StatusCreated, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "CERT-1", body["certificateId"])
		assert.Equal(t, "data:image/png;base64,AA==", body["qrCode"])
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CertificatesIssued))
	})

	t.Run("issue validation error", func(t *testing.T) {
		certSvc.On("Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.ErrValidation("recipientEmail must be a valid email", map[string]string{"recipientEmail": "must be a valid email"})).Once()

		w := doJSON(router, http.MethodPost, "/api/certificates", map[string]string{"recipientEmail": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"details":{"recipientEmail"`)
	})

	t.Run("list", func(t *testing.T) {
		certSvc.On("List", mock.Anything, mock.Anything).Return([]*dto.CertificateResponse{
			{CertificateID: "CERT-2"}, {CertificateID: "CERT-1"},
		}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/certificates", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "CERT-2", body[0]["certificateId"])
	})

	t.Run("list empty is an array", func(t *testing.T) {
		certSvc.On("List", mock.Anything, mock.Anything).Return([]*dto.CertificateResponse{}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/certificates", nil)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("revoke", func(t *testing.T) {
		certSvc.On("Revoke", mock.Anything, "CERT-1", mock.Anything).Return(&dto.RevokeCertificateResponse{
			Message:     dto.MessageCertificateRevoked,
			Certificate: &dto.CertificateResponse{CertificateID: "CERT-1", Status: "revoked"},
		}, nil).Once()
		certSvc.On("Revoke", mock.Anything, "CERT-404", mock.Anything).Return(nil, errors.ErrCertificateNotFound("CERT-404")).Once()

		w := doJSON(router, http.MethodPut, "/api/certificates/CERT-1/revoke", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Certificate revoked successfully"`)

		w = doJSON(router, http.MethodPut, "/api/certificates/CERT-404/revoke", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"Certificate not found"`)
	})

	t.Run("pdf stub", func(t *testing.T) {
		certSvc.On("Get", mock.Anything, "CERT-1").Return(&dto.CertificateResponse{CertificateID: "CERT-1"}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/certificates/CERT-1/pdf", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), dto.MessagePDFNotImplemented)
	})
}

func TestCertificateHandler_PublicBaseURL(t *testing.T) {
	certSvc := new(mocks.MockCertificateAppService)
	router := gin.New()
	router.POST("/api/certificates", NewCertificateHandler(certSvc, monitoring.NewMetrics(nil), "https://certs.example.com/").Issue)

	certSvc.On("Issue", mock.Anything, mock.Anything, mock.Anything, "https://certs.example.com").
		Return(&dto.IssueCertificateResponse{}, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/certificates", map[string]string{})
	assert.Equal(t, http.StatusCreated, w.Code)
	certSvc.AssertExpectations(t)
}

func TestVerifyHandler(t *testing.T) {
	verifySvc := new(mocks.MockVerificationAppService)
	metrics := monitoring.NewMetrics(nil)
	router := gin.New()
	router.GET("/api/verify/:certificateId", NewVerifyHandler(verifySvc, metrics).Verify)

	verifySvc.On("Verify", mock.Anything, "CERT-1").Return(&dto.VerificationResponse{
		Valid:       true,
		Message:     dto.MessageCertificateValid,
		Certificate: &dto.VerifiedCertificateDTO{CertificateID: "CERT-1", Status: "active"},
	}, nil)
	verifySvc.On("Verify", mock.Anything, "CERT-404").Return(nil, errors.ErrCertificateNotFound("CERT-404"))
	verifySvc.On("Verify", mock.Anything, "CERT-ERR").Return(nil, fmt.Errorf("boom"))

	w := doJSON(router, http.MethodGet, "/api/verify/CERT-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)

	w = doJSON(router, http.MethodGet, "/api/verify/CERT-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"valid":false,"message":"Certificate not found"}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/verify/CERT-ERR", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"internal_error"}`, w.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Verifications.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Verifications.WithLabelValues("not_found")))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return fmt.Errorf("connection refused") })

	t.Run("ready", func(t *testing.T) {
		router := gin.New()
		h := NewHealthHandler(map[string]Pinger{"database": ok, "redis": nil}, logger.NewNoopLogger())
		router.GET("/health/live", h.LivenessCheck)
		router.GET("/health/ready", h.ReadinessCheck)

		assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/health/live", nil).Code)
		w := doJSON(router, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
		assert.NotContains(t, w.Body.String(), "redis")
	})

	t.Run("unavailable", func(t *testing.T) {
		router := gin.New()
		h := NewHealthHandler(map[string]Pinger{"database": ok, "redis": down}, logger.NewNoopLogger())
		router.GET("/health/ready", h.ReadinessCheck)

		w := doJSON(router, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
