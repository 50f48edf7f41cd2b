// Package qrcode renders certificate verification links as PNG QR codes.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"

	"github.com/turtacn/certverify/internal/domain/service"
)

const dataURLPrefix = "data:image/png;base64,"

// Encoder produces base64 PNG data URLs suitable for an <img> src attribute.
type Encoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

var _ service.QRCodeEncoder = (*Encoder)(nil)

// NewEncoder creates an encoder producing size x size pixel images.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = 256
	}
	return &Encoder{size: size, level: goqrcode.Medium}
}

// EncodeDataURL renders content and returns it as a data URL.
func (e *Encoder) EncodeDataURL(content string) (string, error) {
	png, err := goqrcode.Encode(content, e.level, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
