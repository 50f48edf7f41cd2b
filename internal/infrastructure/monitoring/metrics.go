package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/certverify/pkg/constants"
)

// Metrics holds the Prometheus collectors exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthAttempts        *prometheus.CounterVec
	CertificatesIssued  prometheus.Counter
	CertificatesRevoked prometheus.Counter
	Verifications       *prometheus.CounterVec
	RateLimitHits       *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg creates a fresh
// registry that also exports Go runtime and process metrics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "auth_attempts_total",
				Help:      "Registration and login attempts by result.",
			},
			[]string{"operation", "result"},
		),
		CertificatesIssued: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "certificates_issued_total",
				Help:      "Certificates issued.",
			},
		),
		CertificatesRevoked: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "certificates_revoked_total",
				Help:      "Certificate revocation requests that succeeded.",
			},
		),
		Verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "verifications_total",
				Help:      "Public verification lookups by outcome.",
			},
			[]string{"outcome"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter.",
			},
			[]string{"scope"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordAuthAttempt(operation, result string) {
	m.AuthAttempts.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) RecordCertificateIssued() {
	m.CertificatesIssued.Inc()
}

func (m *Metrics) RecordCertificateRevoked() {
	m.CertificatesRevoked.Inc()
}

func (m *Metrics) RecordVerification(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRateLimitHit(scope constants.RateLimitScope) {
	m.RateLimitHits.WithLabelValues(string(scope)).Inc()
}
