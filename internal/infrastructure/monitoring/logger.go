package monitoring

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/logger"
)

// ZapLogger implements logger.Logger on top of zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

var _ logger.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a JSON (or console) logger writing to stdout.
func NewZapLogger(cfg *config.LogConfig) (*ZapLogger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), atomicLevel)
	return NewZapLoggerFromCore(core, atomicLevel), nil
}

// NewZapLoggerFromCore wraps an existing core, e.g. an observer in tests.
func NewZapLoggerFromCore(core zapcore.Core, level zap.AtomicLevel) *ZapLogger {
	return &ZapLogger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)),
		level:  level,
	}
}

// SetLevel changes the minimum enabled level at runtime.
func (l *ZapLogger) SetLevel(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(parsed)
	return nil
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.logger.Debug(msg, l.convertFields(ctx, fields)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.logger.Info(msg, l.convertFields(ctx, fields)...)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.logger.Warn(msg, l.convertFields(ctx, fields)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Err(err))
	}
	l.logger.Error(msg, l.convertFields(ctx, fields)...)
}

func (l *ZapLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Err(err))
	}
	l.logger.Fatal(msg, l.convertFields(ctx, fields)...)
}

func (l *ZapLogger) WithFields(fields ...logger.Field) logger.Logger {
	return &ZapLogger{logger: l.logger.With(l.convertFields(context.Background(), fields)...), level: l.level}
}

func (l *ZapLogger) WithComponent(component string) logger.Logger {
	return &ZapLogger{logger: l.logger.With(zap.String("component", component)), level: l.level}
}

func (l *ZapLogger) convertFields(ctx context.Context, fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+2)

	if ctx != nil {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			zapFields = append(zapFields,
				zap.String("trace_id", spanCtx.TraceID().String()),
				zap.String("span_id", spanCtx.SpanID().String()),
			)
		}
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
			zapFields = append(zapFields, zap.String("request_id", requestID))
		}
	}

	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, logger.Sanitize(f.Key, f.Value)))
	}
	return zapFields
}
