package repository

import (
	"context"

	"github.com/turtacn/certverify/internal/domain/models"
)

// CertificateRepository defines the interface for interacting with certificate storage.
type CertificateRepository interface {
	// Save persists a new certificate. A taken certificateId yields errors.ErrDuplicateKey.
	Save(ctx context.Context, cert *models.Certificate) error

	// FindByCertificateID retrieves a certificate by its public identifier.
	FindByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error)

	// FindAll returns every certificate ordered by creation time, newest first.
	FindAll(ctx context.Context) ([]*models.Certificate, error)

	// Revoke sets the status to revoked regardless of the current status and
	// returns the updated record.
	Revoke(ctx context.Context, certificateID string) (*models.Certificate, error)

	// MarkExpired moves an active certificate to expired. It reports whether a
	// row changed; concurrent callers converge on the same state.
	MarkExpired(ctx context.Context, certificateID string) (bool, error)
}
