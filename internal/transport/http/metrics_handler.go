package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mrcli/internal/infrastructure"
)

// MetricsHandler exposes runtime resource statistics as JSON.
// Prometheus scraping uses the /metrics endpoint mounted in app.
type MetricsHandler struct {
	collector *infrastructure.SystemMetricsCollector
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(collector *infrastructure.SystemMetricsCollector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/system", h.GetSystem)
	return r
}

// GetSystem returns current Go runtime statistics
func (h *MetricsHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	if h.collector == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "unavailable",
		})
		return
	}

	stats := h.collector.GetCurrentStats(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"goroutines":          stats.GoRoutines,
		"memory_usage_bytes":  stats.MemoryUsage,
		"memory_alloc_bytes":  stats.MemoryAllocated,
		"memory_system_bytes": stats.MemorySystem,
		"gc_count":            stats.GCCount,
		"last_gc_pause":       stats.LastGCPause.String(),
		"process_uptime_secs": stats.ProcessUptime.Seconds(),
		"timestamp":           stats.Timestamp.Format(time.RFC3339),
	})
}
