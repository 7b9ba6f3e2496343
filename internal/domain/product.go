package domain

import "context"

// Product represents a catalog item
type Product struct {
	ID          string   `json:"id" db:"id" validate:"required"`
	Name        string   `json:"name" db:"name" validate:"required"`
	Description string   `json:"description" db:"description" validate:"required"`
	Price       float64  `json:"price" db:"price" validate:"gte=0"`
	Brand       string   `json:"brand" db:"brand" validate:"required"`
	Category    string   `json:"category" db:"category" validate:"required"`
	Rating      float64  `json:"rating" db:"rating" validate:"gte=0,lte=5"`
	Reviews     int      `json:"reviews" db:"reviews" validate:"gte=0"`
	Image       string   `json:"image" db:"image" validate:"required"`
	Stock       int      `json:"stock" db:"stock" validate:"gte=0"`
	Features    []string `json:"features" db:"features" validate:"dive,required"`
}

// Field names a product attribute that supports distinct-value listing
type Field string

const (
	FieldCategory Field = "category"
	FieldBrand    Field = "brand"
)

// PriceRange is the lowest and highest price across the catalog
type PriceRange struct {
	Min float64 `json:"min" db:"min_price"`
	Max float64 `json:"max" db:"max_price"`
}

// ProductRepository defines read access to the product catalog
type ProductRepository interface {
	// Find returns the page of products matching filter, ordered by ID
	Find(ctx context.Context, filter Filter, skip, limit int) ([]*Product, error)

	// Count returns the number of products matching filter
	Count(ctx context.Context, filter Filter) (int, error)

	// GetByID retrieves a product by ID, ErrNotFound if absent
	GetByID(ctx context.Context, id string) (*Product, error)

	// Distinct lists the unique values of field across the whole catalog
	Distinct(ctx context.Context, field Field) ([]string, error)

	// PriceRange returns the global price bounds, nil when the catalog is empty
	PriceRange(ctx context.Context) (*PriceRange, error)
}

// ProductWriter is the write side used only when seeding the catalog
type ProductWriter interface {
	// EstimatedCount returns the number of stored products
	EstimatedCount(ctx context.Context) (int, error)

	// InsertMany stores all products atomically
	InsertMany(ctx context.Context, products []*Product) error
}
