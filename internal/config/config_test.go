package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/certverify/pkg/errors"
)

const sampleConfig = `
server:
  port: 8088
  public_base_url: https://certs.example.org
database:
  driver: sqlite
  dsn: file:certverify.db
jwt:
  secret: file-secret
  ttl: 2h
log:
  level: info
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "https://certs.example.org", cfg.Server.PublicBaseURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "CERT-", cfg.Certificate.IDPrefix)
	assert.Equal(t, 4, cfg.Certificate.IDRandomBytes)
	assert.Equal(t, 5, cfg.Certificate.MaxIDAttempts)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("CERTVERIFY_JWT_SECRET", "env-secret")
	t.Setenv("CERTVERIFY_SERVER_PORT", "9090")
	t.Setenv("CERTVERIFY_RATE_LIMIT_LOGIN_PER_WINDOW", "3")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.RateLimit.LoginPerWindow)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CERTVERIFY_JWT_SECRET", "env-secret")
	t.Setenv("CERTVERIFY_DATABASE_DRIVER", "sqlite")
	t.Setenv("CERTVERIFY_DATABASE_DSN", "file::memory:")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
}

func TestLoadConfig_FailsFast(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing jwt secret",
			body:    "database:\n  driver: sqlite\n  dsn: file:x.db\n",
			wantMsg: "jwt.secret is required",
		},
		{
			name:    "missing database dsn",
			body:    "jwt:\n  secret: s\n",
			wantMsg: "database.dsn is required",
		},
		{
			name:    "unsupported driver",
			body:    "jwt:\n  secret: s\ndatabase:\n  driver: mongo\n  dsn: mongodb://x\n",
			wantMsg: `database.driver "mongo" is not supported`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_VaultReplacesSecret(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "database:\n  driver: sqlite\n  dsn: file:x.db\nvault:\n  address: http://127.0.0.1:8200\n  secret_path: certverify\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Vault.Enabled())
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoader_WatchLogLevel(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	var level atomic.Value
	require.True(t, loader.WatchLogLevel(func(l string) { level.Store(l) }))

	updated := strings.Replace(sampleConfig, "level: info", "level: debug", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "debug"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestLoader_WatchLogLevelWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	loader := NewLoader("")
	assert.False(t, loader.WatchLogLevel(func(string) {}))
}
