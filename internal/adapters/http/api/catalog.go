package api

import (
	"net/http"

	"github.com/okian/detetive/internal/domain/catalog"
)

// CatalogDependencies defines the interface for reading the card set.
type CatalogDependencies interface {
	Catalog() catalog.Catalog
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Catalog())
}
