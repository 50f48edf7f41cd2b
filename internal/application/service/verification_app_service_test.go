package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/domain/service/mocks"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

func newVerifier(repo *mocks.MockCertificateRepository, now time.Time) VerificationAppService {
	svc := NewVerificationAppService(repo, logger.NewNoopLogger())
	svc.(*verificationAppServiceImpl).now = func() time.Time { return now }
	return svc
}

func TestVerificationAppService_Verify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := func(status models.CertificateStatus, expiry *time.Time) *models.Certificate {
		return &models.Certificate{
			CertificateID: "CERT-ABCD1234",
			RecipientName: "Jane Doe",
			CourseName:    "Go 101",
			IssueDate:     past.Add(-48 * time.Hour),
			ExpiryDate:    expiry,
			Issuer:        "Acme",
			Grade:         "A",
			Status:        status,
			Hash:          "deadbeef",
		}
	}

	t.Run("active", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-ABCD1234").Return(base(models.CertificateStatusActive, &future), nil)

		resp, err := newVerifier(repo, now).Verify(ctx, "CERT-ABCD1234")
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, dto.MessageCertificateValid, resp.Message)
		assert.Equal(t, "CERT-ABCD1234", resp.Certificate.CertificateID)
		assert.Equal(t, "active", resp.Certificate.Status)
		repo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
	})

	t.Run("revoked is redacted", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-ABCD1234").Return(base(models.CertificateStatusRevoked, &past), nil)

		resp, err := newVerifier(repo, now).Verify(ctx, "CERT-ABCD1234")
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, dto.MessageCertificateRevokedNotice, resp.Message)
		assert.Empty(t, resp.Certificate.CertificateID)
		assert.Empty(t, resp.Certificate.Grade)
		assert.Nil(t, resp.Certificate.ExpiryDate)
		assert.Equal(t, "revoked", resp.Certificate.Status)
		repo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
	})

	t.Run("past due becomes expired but stays valid", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-ABCD1234").Return(base(models.CertificateStatusActive, &past), nil)
		repo.On("MarkExpired", ctx, "CERT-ABCD1234").Return(true, nil).Once()

		resp, err := newVerifier(repo, now).Verify(ctx, "CERT-ABCD1234")
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, "expired", resp.Certificate.Status)
		repo.AssertExpectations(t)
	})

	t.Run("already expired is not written again", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-ABCD1234").Return(base(models.CertificateStatusExpired, &past), nil)

		resp, err := newVerifier(repo, now).Verify(ctx, "CERT-ABCD1234")
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, "expired", resp.Certificate.Status)
		repo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
	})

	t.Run("unknown", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-NOPE").Return(nil, errors.ErrNotFound)

		_, err := newVerifier(repo, now).Verify(ctx, "CERT-NOPE")
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, 404, errors.HTTPStatus(err))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mocks.MockCertificateRepository)
		repo.On("FindByCertificateID", ctx, "CERT-ABCD1234").Return(base(models.CertificateStatusActive, &past), nil)
		repo.On("MarkExpired", ctx, "CERT-ABCD1234").Return(false, errors.ErrDatabaseOperation)

		_, err := newVerifier(repo, now).Verify(ctx, "CERT-ABCD1234")
		assert.Equal(t, 500, errors.HTTPStatus(err))
	})
}
