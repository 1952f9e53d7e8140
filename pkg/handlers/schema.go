package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/schema"
)

// TableInfo describes one table visible to the caller.
type TableInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     []string `json:"columns"`
}

// SchemaHandler exposes the readable slice of the catalog.
type SchemaHandler struct {
	registry *schema.Registry
	logger   *zap.Logger
}

// NewSchemaHandler creates the handler.
func NewSchemaHandler(registry *schema.Registry, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{registry: registry, logger: logger.Named("http")}
}

// RegisterRoutes registers the schema endpoints on the router.
func (h *SchemaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/schema/tables", h.HandleTables)
}

// HandleTables handles GET /api/schema/tables. The optional permissions
// query parameter (comma separated) scopes the listing; without it the
// caller sees the basic set.
func (h *SchemaHandler) HandleTables(w http.ResponseWriter, r *http.Request) {
	var permissions []string
	if raw := r.URL.Query().Get("permissions"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			permissions = append(permissions, strings.TrimSpace(p))
		}
	}

	tables := h.registry.QueryTables(permissions)
	infos := make([]TableInfo, 0, len(tables))
	for _, name := range tables {
		t, ok := h.registry.Table(name)
		if !ok {
			continue
		}
		infos = append(infos, TableInfo{
			Name:        name,
			Description: t.Description,
			Columns:     t.ColumnNames(),
		})
	}

	render.JSON(w, r, map[string]any{"tables": infos})
}
