// Package constants defines system-wide constants for the certverify service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is the logical name reported in logs, traces and metrics.
	ServiceName = "certverify"

	// MetricsNamespace prefixes every Prometheus metric exported by the service.
	MetricsNamespace = "certverify"

	// EnvPrefix is the prefix for environment variable overrides (CERTVERIFY_JWT_SECRET, ...).
	EnvPrefix = "CERTVERIFY"
)

// ================================================================================
// Certificate Constants
// ================================================================================

const (
	// DefaultCertificateIDPrefix is prepended to every generated certificate identifier.
	DefaultCertificateIDPrefix = "CERT-"

	// DefaultCertificateIDRandomBytes is the number of random bytes hex-encoded into the identifier.
	DefaultCertificateIDRandomBytes = 4

	// DefaultMaxCertificateIDAttempts bounds identifier regeneration on unique conflicts.
	DefaultMaxCertificateIDAttempts = 5

	// VerifyPathPrefix is the public client route encoded into certificate QR codes.
	VerifyPathPrefix = "/verify/"
)

// ================================================================================
// Authentication Constants
// ================================================================================

const (
	// DefaultTokenTTL is the lifetime of an issued bearer token.
	DefaultTokenTTL = 24 * time.Hour

	// DefaultTokenIssuer is the iss claim written into issued tokens.
	DefaultTokenIssuer = "certverify"

	// AuthorizationHeader is the HTTP header carrying the bearer token.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the expected authorization scheme.
	BearerScheme = "Bearer"
)

// ================================================================================
// Rate Limit Scopes
// ================================================================================

// RateLimitScope identifies a rate limited endpoint group.
type RateLimitScope string

const (
	RateLimitScopeLogin  RateLimitScope = "login"
	RateLimitScopeVerify RateLimitScope = "verify"
)

// ================================================================================
// Log Level Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyClaims is the key for the authenticated caller's token claims
	ContextKeyClaims ContextKey = "claims"

	// ContextKeyUsername is the key for the authenticated caller's username
	ContextKeyUsername ContextKey = "username"

	// ContextKeyClientIP is the key for client IP address in context
	ContextKeyClientIP ContextKey = "client_ip"
)

// RequestIDHeader is the header used to propagate request IDs.
const RequestIDHeader = "X-Request-ID"
