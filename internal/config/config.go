package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the application's configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Vault       VaultConfig       `mapstructure:"vault"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Certificate CertificateConfig `mapstructure:"certificate"`
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// PublicBaseURL is encoded into certificate QR codes. When empty the
	// scheme and host of the issuing request are used.
	PublicBaseURL  string   `mapstructure:"public_base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnTimeout     time.Duration `mapstructure:"conn_timeout"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig configures the shared rate limit counters. An empty Address
// selects the in-process limiter.
type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Enabled reports whether a Redis server is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Address != ""
}

// VaultConfig locates the JWT signing secret in a KV v2 engine.
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
	SecretKey  string `mapstructure:"secret_key"`
}

// Enabled reports whether the JWT secret should be read from Vault.
func (c *VaultConfig) Enabled() bool {
	return c.Address != "" && c.SecretPath != ""
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Window          time.Duration `mapstructure:"window"`
	LoginPerWindow  int           `mapstructure:"login_per_window"`
	VerifyPerWindow int           `mapstructure:"verify_per_window"`
}

type CertificateConfig struct {
	IDPrefix      string `mapstructure:"id_prefix"`
	IDRandomBytes int    `mapstructure:"id_random_bytes"`
	MaxIDAttempts int    `mapstructure:"max_id_attempts"`
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MonitoringConfig struct {
	PprofEnabled   bool `mapstructure:"pprof_enabled"`
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	var problems []string

	if c.JWT.Secret == "" && !c.Vault.Enabled() {
		problems = append(problems, "jwt.secret is required unless vault.address and vault.secret_path are set")
	}
	if c.JWT.TTL <= 0 {
		problems = append(problems, "jwt.ttl must be positive")
	}
	if c.Database.DSN == "" {
		problems = append(problems, "database.dsn is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported (postgres, sqlite)", c.Database.Driver))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if c.Certificate.IDRandomBytes <= 0 {
		problems = append(problems, "certificate.id_random_bytes must be positive")
	}
	if c.Certificate.MaxIDAttempts <= 0 {
		problems = append(problems, "certificate.max_id_attempts must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.Window <= 0 {
		problems = append(problems, "rate_limit.window must be positive when rate limiting is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
