package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/turtacn/certverify/pkg/constants"
)

// RandomCertificateIDGenerator builds identifiers as a prefix followed by
// uppercase hex of cryptographically random bytes, e.g. CERT-9F86D081.
type RandomCertificateIDGenerator struct {
	prefix    string
	byteCount int
}

// NewRandomCertificateIDGenerator creates a generator. Non-positive byteCount
// falls back to the default of 4 bytes.
func NewRandomCertificateIDGenerator(prefix string, byteCount int) *RandomCertificateIDGenerator {
	if byteCount <= 0 {
		byteCount = constants.DefaultCertificateIDRandomBytes
	}
	return &RandomCertificateIDGenerator{prefix: prefix, byteCount: byteCount}
}

// Generate returns a new candidate identifier.
func (g *RandomCertificateIDGenerator) Generate() (string, error) {
	buf := make([]byte, g.byteCount)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return g.prefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
