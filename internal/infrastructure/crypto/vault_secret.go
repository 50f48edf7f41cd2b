package crypto

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/pkg/errors"
	"github.com/turtacn/certverify/pkg/logger"
)

// VaultSecretSource reads the JWT signing secret from a Vault KV v2 engine.
type VaultSecretSource struct {
	client    *vault.Client
	mountPath string
	path      string
	key       string
	logger    logger.Logger
}

// NewVaultSecretSource creates and configures a Vault client.
func NewVaultSecretSource(cfg *config.VaultConfig, log logger.Logger) (*VaultSecretSource, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, errors.ErrInvalidConfig.WithCause(fmt.Errorf("vault client: %w", err))
	}
	client.SetToken(cfg.Token)

	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}

	return &VaultSecretSource{
		client:    client,
		mountPath: mount,
		path:      cfg.SecretPath,
		key:       cfg.SecretKey,
		logger:    log.WithComponent("vault"),
	}, nil
}

// JWTSecret fetches the latest version of the secret and returns the configured key.
func (s *VaultSecretSource) JWTSecret(ctx context.Context) (string, error) {
	secret, err := s.client.KVv2(s.mountPath).Get(ctx, s.path)
	if err != nil {
		s.logger.Error(ctx, "Failed to read secret from Vault", err,
			logger.String("mount", s.mountPath),
			logger.String("path", s.path),
		)
		return "", errors.ErrInvalidConfig.WithCause(fmt.Errorf("read vault secret %s/%s: %w", s.mountPath, s.path, err))
	}

	value, ok := secret.Data[s.key].(string)
	if !ok || value == "" {
		return "", errors.ErrInvalidConfig.WithCause(fmt.Errorf("vault secret %s/%s has no string key %q", s.mountPath, s.path, s.key))
	}

	s.logger.Info(ctx, "JWT secret loaded from Vault", logger.String("path", s.path))
	return value, nil
}
