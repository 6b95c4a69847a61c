package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-insights-api/internal/service"
)

type readinessProbe interface {
	Loaded() bool
}

// HealthHandler exposes observability endpoints.
type HealthHandler struct {
	metrics *service.MetricsService
	data    readinessProbe
}

// NewHealthHandler constructs a health handler.
func NewHealthHandler(metrics *service.MetricsService, data readinessProbe) *HealthHandler {
	return &HealthHandler{metrics: metrics, data: data}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 200 once a dataset has been imported and 503 before.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.data == nil || !h.data.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
