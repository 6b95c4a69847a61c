package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API serves.
type Handlers struct {
	Health    *HealthHandler
	Imports   *ImportHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// RegisterRoutes mounts probes and metrics at the root and the API under prefix.
func RegisterRoutes(r gin.IRouter, prefix string, h Handlers) {
	if h.Health != nil {
		r.GET("/health", h.Health.Health)
		r.GET("/ready", h.Health.Ready)
		r.GET("/metrics", h.Health.Prometheus)
	}

	api := r.Group(prefix)
	if h.Imports != nil {
		api.POST("/imports", h.Imports.Create)
		api.GET("/imports/status", h.Imports.Status)
	}

	dashboard := api.Group("/dashboard")
	if h.Dashboard != nil {
		dashboard.GET("/summary", h.Dashboard.Summary)
		dashboard.GET("/teachers", h.Dashboard.Teachers)
		dashboard.GET("/teachers/:name", h.Dashboard.Teacher)
		dashboard.GET("/rankings", h.Dashboard.Rankings)
		dashboard.POST("/compare", h.Dashboard.Compare)
		dashboard.GET("/records", h.Dashboard.Records)
		dashboard.GET("/options", h.Dashboard.Options)
	}
	if h.Export != nil {
		dashboard.GET("/export", h.Export.Teachers)
	}
}
