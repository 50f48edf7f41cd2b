package service

import (
	"context"
	"time"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/repository"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// VerificationAppService answers public verification requests.
type VerificationAppService interface {
	// Verify reports whether a certificate is valid. An unknown identifier
	// yields a not_found error. Past-due active certificates are moved to
	// expired before the response is built.
	Verify(ctx context.Context, certificateID string) (*dto.VerificationResponse, error)
}

type verificationAppServiceImpl struct {
	certRepo repository.CertificateRepository
	logger   logger.Logger
	now      func() time.Time
}

// NewVerificationAppService creates a new instance of VerificationAppService
func NewVerificationAppService(certRepo repository.CertificateRepository, log logger.Logger) VerificationAppService {
	return &verificationAppServiceImpl{
		certRepo: certRepo,
		logger:   log.WithComponent("verification_service"),
		now:      time.Now,
	}
}

// Verify implements VerificationAppService.
func (s *verificationAppServiceImpl) Verify(ctx context.Context, certificateID string) (*dto.VerificationResponse, error) {
	cert, err := s.certRepo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrCertificateNotFound(certificateID)
		}
		return nil, err
	}

	if cert.IsRevoked() {
		return &dto.VerificationResponse{
			Valid:       false,
			Message:     dto.MessageCertificateRevokedNotice,
			Certificate: dto.NewRedactedCertificate(cert),
		}, nil
	}

	// Expired certificates are still reported as valid, with status "expired".
	if cert.ExpireIfDue(s.now()) {
		changed, err := s.certRepo.MarkExpired(ctx, cert.CertificateID)
		if err != nil {
			return nil, err
		}
		if changed {
			s.logger.Info(ctx, "Certificate expired", logger.String("certificate_id", cert.CertificateID))
		}
	}

	return &dto.VerificationResponse{
		Valid:       true,
		Message:     dto.MessageCertificateValid,
		Certificate: dto.NewVerifiedCertificate(cert),
	}, nil
}
