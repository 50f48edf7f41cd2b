package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/config"
	domainservice "github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/internal/infrastructure/crypto"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/certverify/internal/infrastructure/persistence/redis"
	"github.com/turtacn/certverify/internal/infrastructure/qrcode"
	"github.com/turtacn/certverify/internal/infrastructure/ratelimit"
	"github.com/turtacn/certverify/internal/interfaces/http"
	"github.com/turtacn/certverify/internal/interfaces/http/handlers"
	"github.com/turtacn/certverify/internal/interfaces/http/middleware"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	// Load config
	loader := config.NewLoader(*configFile)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if loader.WatchLogLevel(func(level string) {
		if err := appLogger.SetLevel(level); err != nil {
			appLogger.Warn(ctx, "Ignoring invalid log level", logger.String("level", level))
			return
		}
		appLogger.Info(ctx, "Log level changed", logger.String("level", level))
	}) {
		appLogger.Info(ctx, "Watching configuration file", logger.String("file", loader.ConfigFileUsed()))
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(ctx, "Server exited with error", err)
		_ = appLogger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	// Resolve the signing secret
	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" && cfg.Vault.Enabled() {
		source, err := crypto.NewVaultSecretSource(&cfg.Vault, appLogger)
		if err != nil {
			return err
		}
		if jwtSecret, err = source.JWTSecret(ctx); err != nil {
			return err
		}
		appLogger.Info(ctx, "JWT secret loaded from Vault", logger.String("path", cfg.Vault.SecretPath))
	}

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, cfg.Server.Environment, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	// Initialize database
	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	// Initialize infrastructure
	metrics := monitoring.NewMetrics(nil)
	limiterCfg := &ratelimit.RateLimiterConfig{
		Window: cfg.RateLimit.Window,
		Limits: map[constants.RateLimitScope]int{
			constants.RateLimitScopeLogin:  cfg.RateLimit.LoginPerWindow,
			constants.RateLimitScopeVerify: cfg.RateLimit.VerifyPerWindow,
		},
		KeyPrefix: cfg.Redis.KeyPrefix,
	}
	var rateLimiter domainservice.RateLimiter = ratelimit.NewMemoryRateLimiter(limiterCfg)
	checks := map[string]handlers.Pinger{"database": db}

	if cfg.Redis.Enabled() {
		redisConn, err := redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return err
		}
		defer redisConn.Close()

		redisLimiter, err := ratelimit.NewRedisRateLimiter(redisConn.GetClient(), limiterCfg, rateLimiter, appLogger)
		if err != nil {
			return err
		}
		rateLimiter = redisLimiter
		checks["redis"] = redisConn
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.DB(), appLogger)
	certRepo := postgres.NewCertificateRepository(db.DB(), appLogger)

	// Initialize application services
	jwtManager := crypto.NewJWTManager(jwtSecret, cfg.JWT.TTL, cfg.JWT.Issuer, appLogger)
	authAppSvc := appservice.NewAuthAppService(userRepo, crypto.NewBcryptHasher(cfg.Certificate.BcryptCost), jwtManager, appLogger)
	certAppSvc := appservice.NewCertificateAppService(
		certRepo,
		domainservice.NewRandomCertificateIDGenerator(cfg.Certificate.IDPrefix, cfg.Certificate.IDRandomBytes),
		qrcode.NewEncoder(0),
		appservice.CertificateAppServiceConfig{MaxIDAttempts: cfg.Certificate.MaxIDAttempts},
		appLogger,
	)
	verifyAppSvc := appservice.NewVerificationAppService(certRepo, appLogger)

	// Initialize HTTP handlers and router
	router := http.NewRouter(
		cfg, appLogger, metrics, tracing.Tracer(), rateLimiter,
		handlers.NewHealthHandler(checks, appLogger),
		handlers.NewAuthHandler(authAppSvc, metrics),
		handlers.NewCertificateHandler(certAppSvc, metrics, cfg.Server.PublicBaseURL),
		handlers.NewVerifyHandler(verifyAppSvc, metrics),
		middleware.RequireAuth(authAppSvc, appLogger),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return router.Stop(shutdownCtx)
	})
	return g.Wait()
}
