package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/product_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
	"github.com/Pesokrava/product_catalog/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	catalog *catalog.Service
	lookup  *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *catalog.Service, lookupService *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		lookup:  lookupService,
		logger:  log,
	}
}

// List handles GET /products
// @Summary List products
// @Description Filter the catalog by search term, category, brand and price range, 9 products per page
// @Tags Products
// @Produce json
// @Param searchTerm query string false "Case-insensitive substring of name or description"
// @Param category query string false "Exact category"
// @Param brand query string false "Exact brand"
// @Param minPrice query number false "Inclusive lower price bound"
// @Param maxPrice query number false "Inclusive upper price bound"
// @Param page query int false "1-indexed page" default(1)
// @Success 200 {object} catalog.Page
// @Failure 500 {object} map[string]string "Error fetching products"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := request.GetListingParams(r)
	filter := catalog.BuildFilter(params)
	page := catalog.ParsePage(params.Page)

	result, err := h.catalog.List(r.Context(), filter, page)
	if err != nil {
		h.logger.With("query", r.URL.RawQuery).Error("Internal error in product handler", err)
		response.Message(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	response.OK(w, result)
}

// GetByID handles GET /products/{id}
// @Summary Get a product by ID
// @Description Served from cache when available, otherwise from the catalog store
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Error fetching product"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetStringParam(r, "id")
	if err != nil {
		response.Message(w, http.StatusNotFound, "Product not found")
		return
	}

	p, err := h.lookup.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, id, err)
		return
	}

	response.OK(w, p)
}

// handleError maps lookup errors to HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Message(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.With("product_id", id).Error("Internal error in product handler", err)
		response.Message(w, http.StatusInternalServerError, "Error fetching product")
	}
}
