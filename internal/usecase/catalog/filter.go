package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// Params holds the raw listing query parameters as received
type Params struct {
	SearchTerm string
	Category   string
	Brand      string
	MinPrice   string
	MaxPrice   string
	Page       string
}

// BuildFilter maps raw parameters to a filter.
// Malformed prices are dropped instead of failing the request.
func BuildFilter(p Params) domain.Filter {
	return domain.Filter{
		SearchTerm: strings.TrimSpace(p.SearchTerm),
		Category:   p.Category,
		Brand:      p.Brand,
		MinPrice:   parsePrice(p.MinPrice),
		MaxPrice:   parsePrice(p.MaxPrice),
	}
}

// ParsePage returns the 1-indexed page, falling back to 1 for absent, malformed or non-positive input
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
