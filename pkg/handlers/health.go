package handlers

import (
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/homewiz/query-engine/pkg/config"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Environment string `json:"environment"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// RegisterRoutes registers the health handler's routes on the router.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/ping", h.Ping)
}

// Health handles GET /healthz requests with a bare "ok" for probes.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests with service details.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "query-engine",
		GoVersion:   runtime.Version(),
		Environment: h.cfg.Env,
	})
}
