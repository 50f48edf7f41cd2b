package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/certverify/pkg/logger"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	log     logger.Logger
}

// NewHealthHandler creates a new HealthHandler. checks maps a dependency name
// to its pinger; nil entries are skipped.
func NewHealthHandler(checks map[string]Pinger, log logger.Logger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{
		checks:  active,
		timeout: 3 * time.Second,
		log:     log,
	}
}

// LivenessCheck reports that the process is serving requests.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// ReadinessCheck pings every dependency concurrently and answers 503 if any fails.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	results := h.performChecks(c.Request.Context())

	status, httpStatus := "ready", http.StatusOK
	for _, result := range results {
		if result != "ok" {
			status, httpStatus = "unavailable", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    results,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(h.checks))

	// Each check records its own result, so the group never returns an error.
	var g errgroup.Group
	for name, pinger := range h.checks {
		g.Go(func() error {
			result := "ok"
			if err := pinger.Ping(ctx); err != nil {
				h.log.Warn(ctx, "Readiness check failed", logger.String("dependency", name), logger.Err(err))
				result = "error: " + err.Error()
			}
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
