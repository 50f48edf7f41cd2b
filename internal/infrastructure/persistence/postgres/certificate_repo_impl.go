package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/repository"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// CertificateRepoImpl implements CertificateRepository using gorm.
type CertificateRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewCertificateRepository creates a new gorm-backed certificate repository instance.
func NewCertificateRepository(db *gorm.DB, log logger.Logger) repository.CertificateRepository {
	return &CertificateRepoImpl{
		db:     db,
		logger: log.WithComponent("certificate_repository"),
	}
}

// Save creates a new certificate record.
func (r *CertificateRepoImpl) Save(ctx context.Context, cert *models.Certificate) error {
	startTime := time.Now()

	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}
	if cert.Status == "" {
		cert.Status = models.CertificateStatusActive
	}

	if err := r.db.WithContext(ctx).Create(cert).Error; err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn(ctx, "Certificate ID already in use", logger.String("certificate_id", cert.CertificateID))
			return errors.ErrDuplicateKey.WithCause(err)
		}
		r.logger.Error(ctx, "Failed to create certificate", err, logger.String("certificate_id", cert.CertificateID))
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	r.logger.Info(ctx, "Certificate created successfully",
		logger.String("certificate_id", cert.CertificateID),
		logger.String("issuer", cert.Issuer),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

// FindByCertificateID retrieves a certificate by its public identifier.
func (r *CertificateRepoImpl) FindByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error) {
	var cert models.Certificate

	err := r.db.WithContext(ctx).
		Where("certificate_id = ?", certificateID).
		First(&cert).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug(ctx, "Certificate not found", logger.String("certificate_id", certificateID))
			return nil, errors.ErrCertificateNotFound(certificateID)
		}
		r.logger.Error(ctx, "Failed to retrieve certificate", err, logger.String("certificate_id", certificateID))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	return &cert, nil
}

// FindAll returns every certificate, newest first.
func (r *CertificateRepoImpl) FindAll(ctx context.Context) ([]*models.Certificate, error) {
	var certs []*models.Certificate

	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&certs).Error; err != nil {
		r.logger.Error(ctx, "Failed to list certificates", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	r.logger.Debug(ctx, "Certificates listed", logger.Int("count", len(certs)))
	return certs, nil
}

// Revoke sets the status to revoked and returns the updated record.
func (r *CertificateRepoImpl) Revoke(ctx context.Context, certificateID string) (*models.Certificate, error) {
	var cert models.Certificate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
			return err
		}
		return tx.Model(&models.Certificate{}).
			Where("id = ?", cert.ID).
			Update("status", models.CertificateStatusRevoked).Error
	})
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn(ctx, "Certificate not found for revocation", logger.String("certificate_id", certificateID))
			return nil, errors.ErrCertificateNotFound(certificateID)
		}
		r.logger.Error(ctx, "Failed to revoke certificate", err, logger.String("certificate_id", certificateID))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	cert.Revoke()
	r.logger.Info(ctx, "Certificate revoked", logger.String("certificate_id", certificateID))
	return &cert, nil
}

// MarkExpired performs a conditional update from active to expired.
func (r *CertificateRepoImpl) MarkExpired(ctx context.Context, certificateID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("certificate_id = ? AND status = ?", certificateID, models.CertificateStatusActive).
		Update("status", models.CertificateStatusExpired)
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to mark certificate expired", result.Error, logger.String("certificate_id", certificateID))
		return false, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, result.Error)
	}

	changed := result.RowsAffected > 0
	if changed {
		r.logger.Info(ctx, "Certificate marked expired", logger.String("certificate_id", certificateID))
	}
	return changed, nil
}
