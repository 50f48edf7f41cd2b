// Package logger provides the structured logging contract for the certverify service.
// Implementations attach request and trace identifiers taken from the context and
// mask values stored under sensitive keys.
package logger

import (
	"context"
	"strings"
	"time"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, message string, fields ...Field)

	// Info logs an informational message
	Info(ctx context.Context, message string, fields ...Field)

	// Warn logs a warning message
	Warn(ctx context.Context, message string, fields ...Field)

	// Error logs an error message
	Error(ctx context.Context, message string, err error, fields ...Field)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, message string, err error, fields ...Field)

	// WithFields creates a new logger with additional fields
	WithFields(fields ...Field) Logger

	// WithComponent creates a new logger for a specific component
	WithComponent(component string) Logger
}

// ================================================================================
// Field Type for Structured Logging
// ================================================================================

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Time creates a time field
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.Format(time.RFC3339)}
}

// Any creates a field with any type
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// ================================================================================
// Sanitization
// ================================================================================

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"private_key",
}

// Sanitize masks the value when key names a credential-like field.
func Sanitize(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(keyLower, sensitiveKey) {
			if str, ok := value.(string); ok && len(str) > 0 {
				return maskString(str)
			}
			return "***REDACTED***"
		}
	}
	return value
}

// maskString partially masks a string value
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
