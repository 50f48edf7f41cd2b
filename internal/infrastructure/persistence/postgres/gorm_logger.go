package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/certverify/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes gorm's diagnostics into the service logger.
type GormLogger struct {
	log   logger.Logger
	level gormlogger.LogLevel
}

// NewGormLogger creates a gorm logger that reports slow queries and failures.
func NewGormLogger(log logger.Logger) *GormLogger {
	return &GormLogger{log: log, level: gormlogger.Warn}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

// Trace logs failed statements, except not-found lookups, and slow statements.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log.Debug(ctx, "SQL statement failed",
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.Err(err),
			logger.Int64("latency_ms", elapsed.Milliseconds()),
		)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn(ctx, "Slow SQL statement",
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.Int64("latency_ms", elapsed.Milliseconds()),
		)
	}
}
