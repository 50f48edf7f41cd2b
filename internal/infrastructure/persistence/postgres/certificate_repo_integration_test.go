//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

func TestCertificateRepository_Postgres(t *testing.T) {
	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("Skipping Docker-dependent tests")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("certverify"),
		tcpostgres.WithUsername("certverify"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := postgres.NewDBConnection(ctx, &config.DatabaseConfig{
		Driver:       postgres.DriverPostgres,
		DSN:          dsn,
		MaxOpenConns: 5,
		ConnTimeout:  10 * time.Second,
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Migrate(ctx))

	users := postgres.NewUserRepository(conn.DB(), logger.NewNoopLogger())
	require.NoError(t, users.Save(ctx, models.NewUser("issuer", "hash", "Acme", models.RoleIssuer)))
	err = users.Save(ctx, models.NewUser("issuer", "hash", "", models.RoleIssuer))
	assert.True(t, errors.IsDuplicateKey(err))

	repo := postgres.NewCertificateRepository(conn.DB(), logger.NewNoopLogger())
	cert := &models.Certificate{
		CertificateID:  "CERT-0BADF00D",
		RecipientName:  "Grace Hopper",
		RecipientEmail: "grace@example.com",
		CourseName:     "Compilers",
		IssueDate:      time.Now().UTC(),
		Issuer:         "Acme",
		Hash:           "ab",
	}
	require.NoError(t, repo.Save(ctx, cert))

	dup := *cert
	dup.ID = uuid.Nil
	assert.True(t, errors.IsDuplicateKey(repo.Save(ctx, &dup)))

	changed, err := repo.MarkExpired(ctx, "CERT-0BADF00D")
	require.NoError(t, err)
	assert.True(t, changed)

	revoked, err := repo.Revoke(ctx, "CERT-0BADF00D")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusRevoked, revoked.Status)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.CertificateStatusRevoked, all[0].Status)
}
