package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Breakers  map[string]string `json:"breakers,omitempty"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db      *database.DB
	cache   Pinger
	breaker *services.CircuitBreakerService
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, cache Pinger, breaker *services.CircuitBreakerService, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		breaker: breaker,
		logger:  logger,
	}
}

// GetHealth checks the store and the cache. An open remote breaker is
// reported but does not fail the check, since the store can still answer.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "sports-query-engine",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Checks["cache"] = "failed: " + err.Error()
		} else {
			response.Checks["cache"] = "ok"
		}
	}

	if h.breaker != nil {
		response.Breakers = h.breaker.States()
	}

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
		h.logger.WithField("checks", response.Checks).Warn("Health check failed")
	}

	c.JSON(statusCode, response)
}
