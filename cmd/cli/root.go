// Package cli implements the certverify-admin command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appservice "github.com/turtacn/certverify/internal/application/service"
	"github.com/turtacn/certverify/internal/config"
	domainservice "github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/internal/infrastructure/crypto"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/certverify/internal/infrastructure/qrcode"
	"github.com/turtacn/certverify/pkg/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool
}

// NewRootCmd builds the `certverify-admin` command tree.
// NewRootCmd 构建 `certverify-admin` 命令树。
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "certverify-admin",
		Short: "A CLI tool for administering the certverify service.",
		Long: `certverify-admin performs operator tasks directly against the certverify
store, such as creating users with an explicit role and inspecting or
revoking certificates.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newUserCmd(opts), newCertCmd(opts))
	return rootCmd
}

// Execute is the main entry point for the CLI application.
// Execute 是 CLI 应用程序的主入口点。
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment is the set of services a command runs against.
type environment struct {
	cfg          *config.Config
	db           *postgres.DBConnection
	auth         appservice.AuthAppService
	certificates appservice.CertificateAppService
	verification appservice.VerificationAppService
}

func (o *rootOptions) logger() logger.Logger {
	if !o.verbose {
		return logger.NewNoopLogger()
	}
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return monitoring.NewZapLoggerFromCore(zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level), level)
}

// open loads configuration, connects to the store and wires the services.
// The caller must close the returned environment.
func (o *rootOptions) open(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	log := o.logger()

	db, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	userRepo := postgres.NewUserRepository(db.DB(), log)
	certRepo := postgres.NewCertificateRepository(db.DB(), log)
	tokens := crypto.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer, log)
	ids := domainservice.NewRandomCertificateIDGenerator(cfg.Certificate.IDPrefix, cfg.Certificate.IDRandomBytes)
	certCfg := appservice.CertificateAppServiceConfig{MaxIDAttempts: cfg.Certificate.MaxIDAttempts}

	return &environment{
		cfg:          cfg,
		db:           db,
		auth:         appservice.NewAuthAppService(userRepo, crypto.NewBcryptHasher(cfg.Certificate.BcryptCost), tokens, log),
		certificates: appservice.NewCertificateAppService(certRepo, ids, qrcode.NewEncoder(0), certCfg, log),
		verification: appservice.NewVerificationAppService(certRepo, log),
	}, nil
}

func (e *environment) Close() error {
	return e.db.Close()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
