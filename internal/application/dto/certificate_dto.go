package dto

import (
	"time"

	"github.com/turtacn/certverify/internal/domain/models"
)

// CertificateMetadataDTO carries optional certificate attributes.
type CertificateMetadataDTO struct {
	Duration        string   `json:"duration,omitempty"`
	Credits         *float64 `json:"credits,omitempty"`
	IssuerSignature string   `json:"issuerSignature,omitempty"`
}

// IssueCertificateRequest 颁发证书请求
type IssueCertificateRequest struct {
	RecipientName  string                  `json:"recipientName" validate:"required"`
	RecipientEmail string                  `json:"recipientEmail" validate:"required,email"`
	CourseName     string                  `json:"courseName" validate:"required"`
	Issuer         string                  `json:"issuer" validate:"required"`
	IssueDate      *FlexibleTime           `json:"issueDate,omitempty"`
	ExpiryDate     *FlexibleTime           `json:"expiryDate,omitempty"`
	Grade          string                  `json:"grade,omitempty"`
	Metadata       *CertificateMetadataDTO `json:"metadata,omitempty"`
}

// CertificateResponse is the full certificate view returned to authenticated callers.
type CertificateResponse struct {
	ID             string                  `json:"_id"`
	CertificateID  string                  `json:"certificateId"`
	RecipientName  string                  `json:"recipientName"`
	RecipientEmail string                  `json:"recipientEmail"`
	CourseName     string                  `json:"courseName"`
	IssueDate      time.Time               `json:"issueDate"`
	ExpiryDate     *time.Time              `json:"expiryDate,omitempty"`
	Issuer         string                  `json:"issuer"`
	Grade          string                  `json:"grade,omitempty"`
	Status         string                  `json:"status"`
	Hash           string                  `json:"hash"`
	Metadata       *CertificateMetadataDTO `json:"metadata,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// IssueCertificateResponse is the stored certificate plus its QR code.
type IssueCertificateResponse struct {
	CertificateResponse
	QRCode string `json:"qrCode"`
}

// RevokeCertificateResponse 撤销证书响应
type RevokeCertificateResponse struct {
	Message     string               `json:"message"`
	Certificate *CertificateResponse `json:"certificate"`
}

// CertificatePDFResponse is returned by the PDF placeholder endpoint.
type CertificatePDFResponse struct {
	Message     string               `json:"message"`
	Certificate *CertificateResponse `json:"certificate"`
}

// VerifiedCertificateDTO is the public verification view. Revoked certificates
// only populate the redacted subset; hash and metadata are never included.
type VerifiedCertificateDTO struct {
	CertificateID string     `json:"certificateId,omitempty"`
	RecipientName string     `json:"recipientName"`
	CourseName    string     `json:"courseName"`
	IssueDate     time.Time  `json:"issueDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	Issuer        string     `json:"issuer"`
	Grade         string     `json:"grade,omitempty"`
	Status        string     `json:"status"`
}

// VerificationResponse 公开验证响应
type VerificationResponse struct {
	Valid       bool                    `json:"valid"`
	Message     string                  `json:"message"`
	Certificate *VerifiedCertificateDTO `json:"certificate,omitempty"`
}

// NewCertificateResponse converts a domain certificate into its full view.
func NewCertificateResponse(cert *models.Certificate) *CertificateResponse {
	resp := &CertificateResponse{
		ID:             cert.ID.String(),
		CertificateID:  cert.CertificateID,
		RecipientName:  cert.RecipientName,
		RecipientEmail: cert.RecipientEmail,
		CourseName:     cert.CourseName,
		IssueDate:      cert.IssueDate,
		ExpiryDate:     cert.ExpiryDate,
		Issuer:         cert.Issuer,
		Grade:          cert.Grade,
		Status:         string(cert.Status),
		Hash:           cert.Hash,
		CreatedAt:      cert.CreatedAt,
	}
	if !cert.Metadata.IsZero() {
		resp.Metadata = &CertificateMetadataDTO{
			Duration:        cert.Metadata.Duration,
			Credits:         cert.Metadata.Credits,
			IssuerSignature: cert.Metadata.IssuerSignature,
		}
	}
	return resp
}

// NewVerifiedCertificate returns the full public view.
func NewVerifiedCertificate(cert *models.Certificate) *VerifiedCertificateDTO {
	return &VerifiedCertificateDTO{
		CertificateID: cert.CertificateID,
		RecipientName: cert.RecipientName,
		CourseName:    cert.CourseName,
		IssueDate:     cert.IssueDate,
		ExpiryDate:    cert.ExpiryDate,
		Issuer:        cert.Issuer,
		Grade:         cert.Grade,
		Status:        string(cert.Status),
	}
}

// NewRedactedCertificate returns the view shown for revoked certificates.
func NewRedactedCertificate(cert *models.Certificate) *VerifiedCertificateDTO {
	return &VerifiedCertificateDTO{
		RecipientName: cert.RecipientName,
		CourseName:    cert.CourseName,
		IssueDate:     cert.IssueDate,
		Issuer:        cert.Issuer,
		Status:        string(cert.Status),
	}
}
