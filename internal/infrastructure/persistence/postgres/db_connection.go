// Package postgres provides relational storage for certverify.
// PostgreSQL is reached through the pgx stdlib driver; SQLite is supported for
// local runs and tests. Both are accessed through gorm.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConnection manages the gorm handle and its underlying connection pool.
type DBConnection struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

// NewDBConnection opens the configured database and performs an initial health check.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrInvalidConfig
	}
	log = log.WithComponent("database")

	log.Info(ctx, "Initializing database connection",
		logger.String("driver", cfg.Driver),
		logger.Int("max_open_conns", cfg.MaxOpenConns),
	)

	dialector, err := newDialector(cfg)
	if err != nil {
		log.Error(ctx, "Failed to build database dialector", err)
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Error(ctx, "Failed to open database", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	conn := &DBConnection{db: db, sqlDB: sqlDB, config: cfg, logger: log}

	pingCtx := ctx
	if cfg.ConnTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnTimeout)
		defer cancel()
	}
	if err := conn.Ping(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info(ctx, "Database connection initialized successfully", logger.String("driver", cfg.Driver))
	return conn, nil
}

func newDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		connConfig, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("parse postgres dsn: %w", err))
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connConfig)}), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("unsupported database driver %q", cfg.Driver))
	}
}

// DB returns the gorm handle used by repository implementations.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Migrate creates or updates the users and certificates tables.
func (c *DBConnection) Migrate(ctx context.Context) error {
	start := time.Now()
	if err := c.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Certificate{}); err != nil {
		c.logger.Error(ctx, "Schema migration failed", err)
		return fmt.Errorf("%w: migrate: %v", errors.ErrDatabaseOperation, err)
	}
	c.logger.Info(ctx, "Schema migration completed", logger.Int64("latency_ms", time.Since(start).Milliseconds()))
	return nil
}

// Ping verifies database connectivity and responsiveness.
func (c *DBConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()
	if err := c.sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "Database ping failed", err)
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	latency := time.Since(startTime)
	if latency > 100*time.Millisecond {
		c.logger.Warn(ctx, "High database latency detected",
			logger.Int64("latency_ms", latency.Milliseconds()),
			logger.Int("threshold_ms", 100),
		)
	}
	return nil
}

// Stats returns connection pool statistics.
func (c *DBConnection) Stats() sql.DBStats {
	return c.sqlDB.Stats()
}

// Close shuts down the connection pool.
func (c *DBConnection) Close() error {
	c.logger.Info(context.Background(), "Closing database connection pool",
		logger.Int("open_connections", c.sqlDB.Stats().OpenConnections),
	)
	return c.sqlDB.Close()
}
