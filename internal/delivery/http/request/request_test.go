package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetStringParam(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/products/abc", nil), "id", "abc")

	id, err := GetStringParam(req, "id")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	blank := withURLParam(httptest.NewRequest(http.MethodGet, "/products/%20", nil), "id", " ")
	_, err = GetStringParam(blank, "id")
	assert.Error(t, err)
}

func TestGetListingParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/products?searchTerm=head+phones&category=Audio&brand=Acme&minPrice=5&maxPrice=x&page=2", nil)

	params := GetListingParams(req)

	assert.Equal(t, catalog.Params{
		SearchTerm: "head phones",
		Category:   "Audio",
		Brand:      "Acme",
		MinPrice:   "5",
		MaxPrice:   "x",
		Page:       "2",
	}, params)
}
