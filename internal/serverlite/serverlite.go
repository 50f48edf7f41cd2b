// Package serverlite runs the complete certverify HTTP stack on an in-memory
// SQLite store. It backs end-to-end tests of the client SDK and local demos.
package serverlite

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	appservice "github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/config"
	domainservice "github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/internal/infrastructure/crypto"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/certverify/internal/infrastructure/qrcode"
	apphttp "github.com/turtacn/certverify/internal/interfaces/http"
	"github.com/turtacn/certverify/internal/interfaces/http/handlers"
	"github.com/turtacn/certverify/internal/interfaces/http/middleware"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/logger"
)

// Server is a self-contained certverify server. Rate limiting is disabled.
type Server struct {
	HttpServer *http.Server
	db         *postgres.DBConnection
	signingKey []byte
	ttl        time.Duration
}

// NewServer creates and configures a new server listening on addr once started.
func NewServer(addr string, signingKey []byte) (*Server, error) {
	ctx := context.Background()
	log := logger.NewNoopLogger()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Database: config.DatabaseConfig{
			Driver:       postgres.DriverSQLite,
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
		},
		JWT:         config.JWTConfig{Secret: string(signingKey), TTL: constants.DefaultTokenTTL, Issuer: constants.DefaultTokenIssuer},
		Certificate: config.CertificateConfig{IDPrefix: constants.DefaultCertificateIDPrefix, IDRandomBytes: constants.DefaultCertificateIDRandomBytes, MaxIDAttempts: constants.DefaultMaxCertificateIDAttempts},
	}

	db, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	userRepo := postgres.NewUserRepository(db.DB(), log)
	certRepo := postgres.NewCertificateRepository(db.DB(), log)
	metrics := monitoring.NewMetrics(nil)

	authSvc := appservice.NewAuthAppService(userRepo, crypto.NewBcryptHasher(4),
		crypto.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer, log), log)
	certSvc := appservice.NewCertificateAppService(certRepo,
		domainservice.NewRandomCertificateIDGenerator(cfg.Certificate.IDPrefix, cfg.Certificate.IDRandomBytes),
		qrcode.NewEncoder(0),
		appservice.CertificateAppServiceConfig{MaxIDAttempts: cfg.Certificate.MaxIDAttempts}, log)

	router := apphttp.NewRouter(cfg, log, metrics, otel.Tracer(constants.ServiceName), nil,
		handlers.NewHealthHandler(map[string]handlers.Pinger{"database": db}, log),
		handlers.NewAuthHandler(authSvc, metrics),
		handlers.NewCertificateHandler(certSvc, metrics, ""),
		handlers.NewVerifyHandler(appservice.NewVerificationAppService(certRepo, log), metrics),
		middleware.RequireAuth(authSvc, log),
	)

	return &Server{
		HttpServer: &http.Server{
			Addr:    addr,
			Handler: router.Engine(),
		},
		db:         db,
		signingKey: signingKey,
		ttl:        cfg.JWT.TTL,
	}, nil
}

// Handler returns the HTTP handler, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.HttpServer.Handler
}

// Start runs the server in a goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.HttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
}

// Stop gracefully shuts down the server and releases the store.
func (s *Server) Stop(ctx context.Context) error {
	err := s.HttpServer.Shutdown(ctx)
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
