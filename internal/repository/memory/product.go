package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

// ProductRepository is an in-process catalog store evaluating filters with domain.Filter.Matches
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*domain.Product)}
}

// sorted returns copies of the products matching filter ordered by ID
func (r *ProductRepository) sorted(filter domain.Filter) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(p) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Find retrieves a page of products matching the filter, ordered by ID
func (r *ProductRepository) Find(ctx context.Context, filter domain.Filter, skip, limit int) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := r.sorted(filter)
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []*domain.Product{}, nil
	}
	end := len(all)
	if limit >= 0 && limit < end-skip {
		end = skip + limit
	}
	return all[skip:end], nil
}

// Count returns the number of products matching the filter
func (r *ProductRepository) Count(ctx context.Context, filter domain.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.sorted(filter)), nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

// Distinct lists the unique values of field in ascending order
func (r *ProductRepository) Distinct(ctx context.Context, field domain.Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var get func(*domain.Product) string
	switch field {
	case domain.FieldCategory:
		get = func(p *domain.Product) string { return p.Category }
	case domain.FieldBrand:
		get = func(p *domain.Product) string { return p.Brand }
	default:
		return nil, fmt.Errorf("distinct on %q: %w", field, domain.ErrInvalidInput)
	}

	r.mu.RLock()
	seen := make(map[string]struct{}, len(r.products))
	for _, p := range r.products {
		seen[get(p)] = struct{}{}
	}
	r.mu.RUnlock()

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// PriceRange returns the global price bounds, nil when empty
func (r *ProductRepository) PriceRange(ctx context.Context) (*domain.PriceRange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var pr *domain.PriceRange
	for _, p := range r.products {
		if pr == nil {
			pr = &domain.PriceRange{Min: p.Price, Max: p.Price}
			continue
		}
		if p.Price < pr.Min {
			pr.Min = p.Price
		}
		if p.Price > pr.Max {
			pr.Max = p.Price
		}
	}
	return pr, nil
}

// EstimatedCount returns the number of stored products
func (r *ProductRepository) EstimatedCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

// InsertMany stores all products or none; duplicate IDs are rejected
func (r *ProductRepository) InsertMany(ctx context.Context, products []*domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := r.products[p.ID]; ok {
			return fmt.Errorf("insert product %s: %w", p.ID, domain.ErrInvalidInput)
		}
		if _, ok := batch[p.ID]; ok {
			return fmt.Errorf("insert product %s twice: %w", p.ID, domain.ErrInvalidInput)
		}
		batch[p.ID] = struct{}{}
	}

	for _, p := range products {
		r.products[p.ID] = clone(p)
	}
	return nil
}

func clone(p *domain.Product) *domain.Product {
	c := *p
	c.Features = append([]string{}, p.Features...)
	return &c
}
