package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

const productColumns = `id, name, description, price, brand, category, rating, reviews, image, stock, features`

// productRow mirrors the products table; features need pq's array scanner
type productRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Price       float64        `db:"price"`
	Brand       string         `db:"brand"`
	Category    string         `db:"category"`
	Rating      float64        `db:"rating"`
	Reviews     int            `db:"reviews"`
	Image       string         `db:"image"`
	Stock       int            `db:"stock"`
	Features    pq.StringArray `db:"features"`
}

func (r productRow) toDomain() *domain.Product {
	features := []string(r.Features)
	if features == nil {
		features = []string{}
	}
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Brand:       r.Brand,
		Category:    r.Category,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		Image:       r.Image,
		Stock:       r.Stock,
		Features:    features,
	}
}

// distinctColumns whitelists the columns Distinct may touch
var distinctColumns = map[domain.Field]string{
	domain.FieldCategory: "category",
	domain.FieldBrand:    "brand",
}

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// whereClause translates a filter into a WHERE clause and its positional args
func whereClause(f domain.Filter) (string, []interface{}) {
	if f.IsEmpty() {
		return "", nil
	}

	var conds []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SearchTerm != "" {
		p := next("%" + escapeLike(f.SearchTerm) + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.Category != "" {
		conds = append(conds, "category = "+next(f.Category))
	}
	if f.Brand != "" {
		conds = append(conds, "brand = "+next(f.Brand))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+next(*f.MaxPrice))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike makes s match literally inside a LIKE pattern (default escape is backslash)
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Find retrieves a page of products matching the filter, ordered by ID
func (r *ProductRepository) Find(ctx context.Context, filter domain.Filter, skip, limit int) ([]*domain.Product, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM products%s ORDER BY id LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, skip)

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepository) Count(ctx context.Context, filter domain.Filter) (int, error) {
	where, args := whereClause(filter)
	query := "SELECT COUNT(*) FROM products" + where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var row productRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	return row.toDomain(), nil
}

// Distinct lists the unique values of a whitelisted column
func (r *ProductRepository) Distinct(ctx context.Context, field domain.Field) ([]string, error) {
	column, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("distinct on %q: %w", field, domain.ErrInvalidInput)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM products ORDER BY %s", column, column)

	values := []string{}
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return values, nil
}

// PriceRange returns the global price bounds, nil for an empty table
func (r *ProductRepository) PriceRange(ctx context.Context) (*domain.PriceRange, error) {
	query := `SELECT MIN(price) AS min_price, MAX(price) AS max_price FROM products`

	var row struct {
		Min sql.NullFloat64 `db:"min_price"`
		Max sql.NullFloat64 `db:"max_price"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("price range: %w", err)
	}

	if !row.Min.Valid || !row.Max.Valid {
		return nil, nil
	}
	return &domain.PriceRange{Min: row.Min.Float64, Max: row.Max.Float64}, nil
}

// EstimatedCount returns the total number of stored products
func (r *ProductRepository) EstimatedCount(ctx context.Context) (int, error) {
	return r.Count(ctx, domain.Filter{})
}

// InsertMany stores products in a single transaction
func (r *ProductRepository) InsertMany(ctx context.Context, products []*domain.Product) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		features := pq.StringArray(p.Features)
		if features == nil {
			features = pq.StringArray{}
		}
		_, err = stmt.ExecContext(ctx,
			p.ID,
			p.Name,
			p.Description,
			p.Price,
			p.Brand,
			p.Category,
			p.Rating,
			p.Reviews,
			p.Image,
			p.Stock,
			features,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
