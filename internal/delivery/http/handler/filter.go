package handler

import (
	"net/http"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
)

// FilterHandler serves the metadata needed to build filter controls
type FilterHandler struct {
	catalog *catalog.Service
	logger  *logger.Logger
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(catalogService *catalog.Service, log *logger.Logger) *FilterHandler {
	return &FilterHandler{
		catalog: catalogService,
		logger:  log,
	}
}

// Get handles GET /filters
// @Summary Get filter metadata
// @Description Distinct categories and brands plus the price range of the whole catalog
// @Tags Filters
// @Produce json
// @Success 200 {object} catalog.FilterMetadata
// @Failure 500 {object} map[string]string "Failed to retrieve filters"
// @Router /filters [get]
func (h *FilterHandler) Get(w http.ResponseWriter, r *http.Request) {
	meta, err := h.catalog.FilterMetadata(r.Context())
	if err != nil {
		h.logger.Error("Internal error in filter handler", err)
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve filters")
		return
	}

	response.OK(w, meta)
}
