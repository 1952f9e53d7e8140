// Package handlers exposes the query pipeline over HTTP.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/services"
)

// QueryHandler serves the natural language query endpoints. Both endpoints
// return the uniform response envelope with HTTP 200; pipeline failures are
// reported inside the envelope, not as HTTP errors. Only a malformed request
// body earns a 400.
type QueryHandler struct {
	processor *services.Processor
	logger    *zap.Logger
}

// NewQueryHandler creates the handler.
func NewQueryHandler(processor *services.Processor, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{processor: processor, logger: logger.Named("http")}
}

// RegisterRoutes registers the query endpoints on the router.
func (h *QueryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/query", h.HandleQuery)
	r.Post("/api/query/validate", h.HandleValidate)
}

// HandleQuery handles POST /api/query: run one query end to end.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var query models.Query
	if err := render.DecodeJSON(r.Body, &query); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, models.FailureResponse("request body is not valid JSON"))
		return
	}

	resp := h.processor.Process(r.Context(), &query)
	render.JSON(w, r, resp)
}

// HandleValidate handles POST /api/query/validate: dispatch and generate
// without executing, returning the SQL or update plan that would have run.
func (h *QueryHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var query models.Query
	if err := render.DecodeJSON(r.Body, &query); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, models.FailureResponse("request body is not valid JSON"))
		return
	}

	resp := h.processor.Validate(r.Context(), &query)
	render.JSON(w, r, resp)
}
