// Package models defines the domain models for the certverify service.
// This file contains the Certificate domain model with its lifecycle rules.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateStatus is the lifecycle state of a certificate.
type CertificateStatus string

const (
	// CertificateStatusActive is the initial state of every issued certificate.
	CertificateStatusActive CertificateStatus = "active"
	// CertificateStatusRevoked is set explicitly by an authenticated user.
	CertificateStatusRevoked CertificateStatus = "revoked"
	// CertificateStatusExpired is set lazily when a verification finds expiryDate in the past.
	CertificateStatusExpired CertificateStatus = "expired"
)

// CertificateMetadata holds optional free-form attributes stored alongside a certificate.
// CertificateMetadata 保存与证书一起存储的可选属性。
type CertificateMetadata struct {
	Duration        string   `json:"duration,omitempty" gorm:"size:255"`
	Credits         *float64 `json:"credits,omitempty"`
	IssuerSignature string   `json:"issuerSignature,omitempty" gorm:"size:1024"`
}

// IsZero reports whether no metadata attribute is set.
func (m CertificateMetadata) IsZero() bool {
	return m.Duration == "" && m.Credits == nil && m.IssuerSignature == ""
}

// Certificate represents an issued credential.
// All content fields are immutable after creation; only Status changes.
// Certificate 代表一份已颁发的证书。
// 创建后所有内容字段均不可变，只有 Status 会发生变化。
type Certificate struct {
	// ID is the internal primary key.
	// ID 是内部主键。
	ID uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`

	// CertificateID is the public identifier, e.g. CERT-1A2B3C4D.
	// CertificateID 是公开标识符，例如 CERT-1A2B3C4D。
	CertificateID string `json:"certificateId" gorm:"size:64;not null;uniqueIndex"`

	RecipientName  string `json:"recipientName" gorm:"size:255;not null"`
	RecipientEmail string `json:"recipientEmail" gorm:"size:255;not null"`
	CourseName     string `json:"courseName" gorm:"size:255;not null"`

	// IssueDate defaults to the creation time.
	// IssueDate 默认为创建时间。
	IssueDate time.Time `json:"issueDate" gorm:"not null"`

	// ExpiryDate is optional. Once it has passed, the next verification marks the certificate expired.
	// ExpiryDate 是可选的。过期后，下一次验证会将证书标记为已过期。
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`

	Issuer string `json:"issuer" gorm:"size:255;not null"`
	Grade  string `json:"grade,omitempty" gorm:"size:64"`

	// Status is active, revoked or expired.
	// Status 为 active、revoked 或 expired。
	Status CertificateStatus `json:"status" gorm:"type:varchar(16);not null;default:active;index"`

	// Hash is the hex SHA-256 of the issuance payload. It is never re-derived.
	// Hash 是颁发请求内容的十六进制 SHA-256 值，之后不会重新计算。
	Hash string `json:"hash" gorm:"size:64;not null"`

	Metadata CertificateMetadata `json:"metadata" gorm:"embedded;embeddedPrefix:metadata_"`

	// CreatedAt orders certificate listings, newest first.
	// CreatedAt 用于证书列表排序，最新的在前。
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

// BeforeCreate assigns an ID when the caller did not.
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsRevoked reports whether the certificate has been revoked.
func (c *Certificate) IsRevoked() bool {
	return c.Status == CertificateStatusRevoked
}

// IsExpiredAt reports whether the certificate has an expiry date strictly before now.
func (c *Certificate) IsExpiredAt(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// Revoke moves the certificate to the revoked state. Revoking twice is a no-op.
func (c *Certificate) Revoke() {
	c.Status = CertificateStatusRevoked
}

// ExpireIfDue marks an active certificate expired when its expiry date has passed.
// It reports whether the status changed.
func (c *Certificate) ExpireIfDue(now time.Time) bool {
	if c.Status != CertificateStatusActive || !c.IsExpiredAt(now) {
		return false
	}
	c.Status = CertificateStatusExpired
	return true
}
