package request

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
)

// GetStringParam extracts a non-blank URL path parameter
func GetStringParam(r *http.Request, key string) (string, error) {
	param := strings.TrimSpace(chi.URLParam(r, key))
	if param == "" {
		return "", fmt.Errorf("missing parameter: %s", key)
	}
	return param, nil
}

// GetListingParams extracts the raw listing parameters from the query string
func GetListingParams(r *http.Request) catalog.Params {
	q := r.URL.Query()
	return catalog.Params{
		SearchTerm: q.Get("searchTerm"),
		Category:   q.Get("category"),
		Brand:      q.Get("brand"),
		MinPrice:   q.Get("minPrice"),
		MaxPrice:   q.Get("maxPrice"),
		Page:       q.Get("page"),
	}
}
