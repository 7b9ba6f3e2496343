package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	lo, hi := 20.0, 50.0
	p := &Product{ID: "2", Name: "Noise Cancelling Headphones", Description: "Over-ear", Price: 50, Brand: "Acme", Category: "B"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches all", Filter{}, true},
		{"search in name ignores case", Filter{SearchTerm: "cancelling"}, true},
		{"search in description", Filter{SearchTerm: "OVER-EAR"}, true},
		{"search misses both", Filter{SearchTerm: "wireless"}, false},
		{"category exact", Filter{Category: "B"}, true},
		{"category is case sensitive", Filter{Category: "b"}, false},
		{"brand mismatch", Filter{Brand: "Globex"}, false},
		{"inclusive upper bound", Filter{MaxPrice: &hi}, true},
		{"inclusive lower bound", Filter{MinPrice: &hi}, true},
		{"within range", Filter{MinPrice: &lo, MaxPrice: &hi}, true},
		{"below lower bound", Filter{MinPrice: &[]float64{50.01}[0]}, false},
		{"above upper bound", Filter{MaxPrice: &lo}, false},
		{"criteria are anded", Filter{Category: "B", Brand: "Globex"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(p))
		})
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	min := 1.0
	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{MinPrice: &min}.IsEmpty())
	assert.False(t, Filter{SearchTerm: "x"}.IsEmpty())
}
