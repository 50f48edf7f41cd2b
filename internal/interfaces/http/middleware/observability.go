package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/pkg/constants"
)

// ObservabilityMiddleware returns a Gin middleware that integrates Prometheus metrics and OpenTelemetry tracing.
// For each HTTP request, it starts a server span (continuing an incoming W3C trace context) and records
// request totals and duration labelled with the method, route template and status code.
// ObservabilityMiddleware 返回一个集成了 Prometheus 指标和 OpenTelemetry 跟踪的 Gin 中间件。
// 指标使用 HTTP 方法、路由模板和状态代码进行标记。
func ObservabilityMiddleware(tracer trace.Tracer, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.FullPath(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if sc := span.SpanContext(); sc.IsValid() {
			c.Set(string(constants.ContextKeyTraceID), sc.TraceID().String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		// Route templates keep label cardinality low.
		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}

		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), time.Since(start))

		span.SetAttributes(
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPRouteKey.String(path),
			semconv.HTTPStatusCodeKey.Int(status),
			attribute.String("http.client_ip", c.ClientIP()),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
	}
}
