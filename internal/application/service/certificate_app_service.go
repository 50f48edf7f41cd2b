package service

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/repository"
	domainService "github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
	"github.com/turtacn/certverify/pkg/utils"
)

// CertificateAppService defines the interface for certificate lifecycle operations
type CertificateAppService interface {
	// Issue validates and stores a new certificate and renders its verification QR code.
	// baseURL is the public origin used to build the verification link.
	Issue(ctx context.Context, req *dto.IssueCertificateRequest, caller *models.Claims, baseURL string) (*dto.IssueCertificateResponse, error)

	// List returns all certificates, newest first.
	List(ctx context.Context, caller *models.Claims) ([]*dto.CertificateResponse, error)

	// Revoke marks a certificate as revoked.
	Revoke(ctx context.Context, certificateID string, caller *models.Claims) (*dto.RevokeCertificateResponse, error)

	// Get returns a single certificate.
	Get(ctx context.Context, certificateID string) (*dto.CertificateResponse, error)
}

// CertificateAppServiceConfig holds tunables for CertificateAppService.
type CertificateAppServiceConfig struct {
	MaxIDAttempts int
}

type certificateAppServiceImpl struct {
	certRepo      repository.CertificateRepository
	idGenerator   domainService.CertificateIDGenerator
	qrEncoder     domainService.QRCodeEncoder
	maxIDAttempts int
	logger        logger.Logger
	now           func() time.Time
}

// NewCertificateAppService creates a new instance of CertificateAppService
func NewCertificateAppService(
	certRepo repository.CertificateRepository,
	idGenerator domainService.CertificateIDGenerator,
	qrEncoder domainService.QRCodeEncoder,
	cfg CertificateAppServiceConfig,
	log logger.Logger,
) CertificateAppService {
	attempts := cfg.MaxIDAttempts
	if attempts <= 0 {
		attempts = constants.DefaultMaxCertificateIDAttempts
	}
	return &certificateAppServiceImpl{
		certRepo:      certRepo,
		idGenerator:   idGenerator,
		qrEncoder:     qrEncoder,
		maxIDAttempts: attempts,
		logger:        log.WithComponent("certificate_service"),
		now:           time.Now,
	}
}

// Issue implements CertificateAppService.
func (s *certificateAppServiceImpl) Issue(ctx context.Context, req *dto.IssueCertificateRequest, caller *models.Claims, baseURL string) (*dto.IssueCertificateResponse, error) {
	if req == nil {
		return nil, errors.ErrInvalidRequest("request body is required")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hash, err := domainService.HashPayload(req)
	if err != nil {
		return nil, errors.ErrInternal("failed to hash certificate payload").WithCause(err)
	}

	now := s.now().UTC()
	cert := &models.Certificate{
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		CourseName:     req.CourseName,
		IssueDate:      now,
		Issuer:         req.Issuer,
		Grade:          req.Grade,
		Status:         models.CertificateStatusActive,
		Hash:           hash,
		CreatedAt:      now,
	}
	if req.IssueDate != nil {
		if t := req.IssueDate.Ptr(); t != nil {
			cert.IssueDate = *t
		}
	}
	if req.ExpiryDate != nil {
		cert.ExpiryDate = req.ExpiryDate.Ptr()
	}
	if req.Metadata != nil {
		cert.Metadata = models.CertificateMetadata{
			Duration:        req.Metadata.Duration,
			Credits:         req.Metadata.Credits,
			IssuerSignature: req.Metadata.IssuerSignature,
		}
	}

	if err := s.saveWithUniqueID(ctx, cert); err != nil {
		return nil, err
	}

	verifyURL := strings.TrimRight(baseURL, "/") + constants.VerifyPathPrefix + cert.CertificateID
	qr, err := s.qrEncoder.EncodeDataURL(verifyURL)
	if err != nil {
		s.logger.Error(ctx, "Failed to render QR code", err, logger.String("certificate_id", cert.CertificateID))
		return nil, errors.ErrInternal("failed to generate QR code").WithCause(err)
	}

	s.logger.Info(ctx, "Certificate issued",
		logger.String("certificate_id", cert.CertificateID),
		logger.String("issued_by", callerName(caller)),
	)

	return &dto.IssueCertificateResponse{
		CertificateResponse: *dto.NewCertificateResponse(cert),
		QRCode:              qr,
	}, nil
}

// saveWithUniqueID assigns a fresh identifier and retries the insert while the
// store reports a duplicate, up to maxIDAttempts times.
func (s *certificateAppServiceImpl) saveWithUniqueID(ctx context.Context, cert *models.Certificate) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxIDAttempts; attempt++ {
		id, err := s.idGenerator.Generate()
		if err != nil {
			return errors.ErrInternal("failed to generate certificate id").WithCause(err)
		}
		cert.CertificateID = id

		err = s.certRepo.Save(ctx, cert)
		if err == nil {
			return nil
		}
		if !errors.IsDuplicateKey(err) {
			return err
		}
		lastErr = err
		s.logger.Warn(ctx, "Certificate ID collision, regenerating",
			logger.String("certificate_id", id),
			logger.Int("attempt", attempt),
		)
	}
	s.logger.Error(ctx, "Exhausted certificate ID attempts", lastErr, logger.Int("attempts", s.maxIDAttempts))
	return errors.ErrInternal("unable to allocate a unique certificate id").WithCause(lastErr)
}

// List implements CertificateAppService.
func (s *certificateAppServiceImpl) List(ctx context.Context, caller *models.Claims) ([]*dto.CertificateResponse, error) {
	certs, err := s.certRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		out = append(out, dto.NewCertificateResponse(cert))
	}
	s.logger.Debug(ctx, "Listed certificates",
		logger.Int("count", len(out)),
		logger.String("requested_by", callerName(caller)),
	)
	return out, nil
}

// Revoke implements CertificateAppService. Revoking an already revoked
// certificate succeeds again.
func (s *certificateAppServiceImpl) Revoke(ctx context.Context, certificateID string, caller *models.Claims) (*dto.RevokeCertificateResponse, error) {
	cert, err := s.certRepo.Revoke(ctx, certificateID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrCertificateNotFound(certificateID)
		}
		return nil, err
	}

	s.logger.Info(ctx, "Certificate revoked",
		logger.String("certificate_id", certificateID),
		logger.String("revoked_by", callerName(caller)),
	)

	return &dto.RevokeCertificateResponse{
		Message:     dto.MessageCertificateRevoked,
		Certificate: dto.NewCertificateResponse(cert),
	}, nil
}

// Get implements CertificateAppService.
func (s *certificateAppServiceImpl) Get(ctx context.Context, certificateID string) (*dto.CertificateResponse, error) {
	cert, err := s.certRepo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrCertificateNotFound(certificateID)
		}
		return nil, err
	}
	return dto.NewCertificateResponse(cert), nil
}

func callerName(caller *models.Claims) string {
	if caller == nil {
		return ""
	}
	return caller.Username
}
