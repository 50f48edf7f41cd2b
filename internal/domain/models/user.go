// Package models defines the domain models for the certverify service.
// This file contains the User domain model.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role of a user.
type Role string

const (
	// RoleAdmin can do everything an issuer can; it is assigned through the admin CLI.
	RoleAdmin Role = "admin"
	// RoleIssuer is the default role given on self-registration.
	RoleIssuer Role = "issuer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleIssuer
}

// User represents an account that can authenticate and issue certificates.
// Users are created on registration and never updated; the role is fixed at creation.
// User 代表一个可以认证并颁发证书的账户。
// 用户在注册时创建且不会被更新；角色在创建时确定。
type User struct {
	// ID is the system-generated identifier, carried as the userId token claim.
	// ID 是系统生成的标识符，作为令牌中的 userId 声明。
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Username is the unique login name.
	// Username 是唯一的登录名。
	Username string `json:"username" gorm:"size:255;not null;uniqueIndex"`

	// PasswordHash is the bcrypt hash of the password. It is never serialized.
	// PasswordHash 是密码的 bcrypt 哈希值，永远不会被序列化。
	PasswordHash string `json:"-" gorm:"size:255;not null"`

	// Role is either admin or issuer.
	// Role 为 admin 或 issuer。
	Role Role `json:"role" gorm:"type:varchar(16);not null;default:issuer"`

	// Organization is optional free text used to prefill the issuer of new certificates.
	// Organization 是可选的自由文本，用于预填新证书的颁发者。
	Organization string `json:"organization,omitempty" gorm:"size:255"`

	// CreatedAt is the timestamp when the user registered.
	// CreatedAt 是用户注册时的时间戳。
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

// NewUser builds a user with the issuer role unless another valid role is given.
func NewUser(username, passwordHash, organization string, role Role) *User {
	if !role.Valid() {
		role = RoleIssuer
	}
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Organization: organization,
	}
}

// BeforeCreate assigns an ID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
