package service

import (
	"context"
	"time"

	"github.com/turtacn/certverify/internal/domain/models"
	"github.com/turtacn/certverify/pkg/constants"
)

// PasswordHasher hashes and checks user passwords.
// PasswordHasher 负责哈希和校验用户密码。
type PasswordHasher interface {
	// Hash returns a salted one-way hash of password.
	Hash(password string) (string, error)

	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenManager issues and validates bearer tokens.
// TokenManager 负责颁发和校验访问令牌。
type TokenManager interface {
	// Issue signs a token for user and returns it with its expiry.
	Issue(ctx context.Context, user *models.User) (token string, expiresAt time.Time, err error)

	// Verify checks the signature, algorithm and expiry of token and returns its claims.
	Verify(ctx context.Context, token string) (*models.Claims, error)
}

// CertificateIDGenerator produces candidate public certificate identifiers.
// Uniqueness is enforced by the store, not the generator.
// CertificateIDGenerator 生成候选的证书公开标识符，唯一性由存储层保证。
type CertificateIDGenerator interface {
	Generate() (string, error)
}

// QRCodeEncoder renders content as a PNG QR code data URL.
// QRCodeEncoder 将内容渲染为 PNG 二维码 data URL。
type QRCodeEncoder interface {
	EncodeDataURL(content string) (string, error)
}

// RateLimiter decides whether another request may proceed for an identifier within a scope.
// RateLimiter 判断某个作用域内的标识符是否允许继续请求。
type RateLimiter interface {
	Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (allowed bool, remaining int, err error)
}
