package domain

import "strings"

// Filter is the structured predicate built from listing query parameters.
// Zero-valued criteria impose no constraint.
type Filter struct {
	SearchTerm string
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
}

// IsEmpty reports whether the filter matches every product
func (f Filter) IsEmpty() bool {
	return f.SearchTerm == "" && f.Category == "" && f.Brand == "" &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// Matches evaluates the filter against a single product.
// Store backends must select exactly the products for which Matches is true.
func (f Filter) Matches(p *Product) bool {
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}
