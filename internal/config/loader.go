package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/errors"
)

// Loader reads configuration from file and environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. When configFile is empty, config.yaml is searched
// for in /etc/certverify/ and the working directory.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/certverify/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// LoadConfig loads and validates the configuration.
func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}

// Load reads the configuration file (a missing file is not an error),
// applies environment overrides and validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("read config: %w", err))
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("unmarshal config: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInvalidConfig.WithCause(err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// WatchLogLevel invokes fn with the new log.level whenever the configuration
// file is written. It reports false when no file was loaded.
func (l *Loader) WatchLogLevel(fn func(level string)) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.v.GetString("log.level"))
	})
	l.v.WatchConfig()
	return true
}

// setDefaults registers a default for every key so environment overrides
// are honored by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_timeout", "10s")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", constants.ServiceName)

	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "")
	v.SetDefault("vault.secret_key", "jwt_secret")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", constants.DefaultTokenTTL.String())
	v.SetDefault("jwt.issuer", constants.DefaultTokenIssuer)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.login_per_window", 10)
	v.SetDefault("rate_limit.verify_per_window", 120)

	v.SetDefault("certificate.id_prefix", constants.DefaultCertificateIDPrefix)
	v.SetDefault("certificate.id_random_bytes", constants.DefaultCertificateIDRandomBytes)
	v.SetDefault("certificate.max_id_attempts", constants.DefaultMaxCertificateIDAttempts)
	v.SetDefault("certificate.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sampling_rate", 1.0)

	v.SetDefault("monitoring.pprof_enabled", false)
	v.SetDefault("monitoring.metrics_enabled", true)
}
