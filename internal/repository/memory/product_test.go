package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func seeded(t *testing.T) *ProductRepository {
	t.Helper()

	repo := NewProductRepository()
	var products []*domain.Product
	categories := []string{"Audio", "Laptops", "Phones"}
	brands := []string{"Acme", "Globex"}
	for i := 0; i < 30; i++ {
		products = append(products, &domain.Product{
			ID:          fmt.Sprintf("p%02d", i),
			Name:        fmt.Sprintf("Item %d", i),
			Description: map[bool]string{true: "Wireless gadget", false: "Wired gadget"}[i%4 == 0],
			Price:       float64(i * 10),
			Brand:       brands[i%len(brands)],
			Category:    categories[i%len(categories)],
			Image:       "item.webp",
			Features:    []string{"f"},
		})
	}
	require.NoError(t, repo.InsertMany(context.Background(), products))
	return repo
}

func TestProductRepository_FindRespectsFilter(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	filters := []domain.Filter{
		{Category: "Audio"},
		{Brand: "Globex"},
		{MinPrice: floatPtr(55), MaxPrice: floatPtr(180)},
		{MinPrice: floatPtr(250)},
		{MaxPrice: floatPtr(40)},
		{SearchTerm: "WIRELESS"},
		{SearchTerm: "item 1"},
		{SearchTerm: "gadget", Category: "Phones", Brand: "Acme", MaxPrice: floatPtr(200)},
	}

	for _, f := range filters {
		products, err := repo.Find(ctx, f, 0, 100)
		require.NoError(t, err)

		total, err := repo.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, len(products), total)

		for _, p := range products {
			assert.True(t, f.Matches(p), "product %s should match %+v", p.ID, f)
			if f.Category != "" {
				assert.Equal(t, f.Category, p.Category)
			}
			if f.MinPrice != nil {
				assert.GreaterOrEqual(t, p.Price, *f.MinPrice)
			}
			if f.MaxPrice != nil {
				assert.LessOrEqual(t, p.Price, *f.MaxPrice)
			}
			if f.SearchTerm != "" {
				term := strings.ToLower(f.SearchTerm)
				assert.True(t,
					strings.Contains(strings.ToLower(p.Name), term) ||
						strings.Contains(strings.ToLower(p.Description), term))
			}
		}
	}
}

func TestProductRepository_FindPaginatesByID(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	first, err := repo.Find(ctx, domain.Filter{}, 0, 9)
	require.NoError(t, err)
	second, err := repo.Find(ctx, domain.Filter{}, 9, 9)
	require.NoError(t, err)
	last, err := repo.Find(ctx, domain.Filter{}, 27, 9)
	require.NoError(t, err)
	beyond, err := repo.Find(ctx, domain.Filter{}, 90, 9)
	require.NoError(t, err)

	assert.Len(t, first, 9)
	assert.Equal(t, "p00", first[0].ID)
	assert.Equal(t, "p09", second[0].ID)
	assert.Len(t, last, 3)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestProductRepository_GetByID(t *testing.T) {
	repo := seeded(t)

	p, err := repo.GetByID(context.Background(), "p03")
	require.NoError(t, err)
	assert.Equal(t, "Item 3", p.Name)

	p.Name = "mutated"
	again, err := repo.GetByID(context.Background(), "p03")
	require.NoError(t, err)
	assert.Equal(t, "Item 3", again.Name)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_DistinctAndPriceRange(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	categories, err := repo.Distinct(ctx, domain.FieldCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Audio", "Laptops", "Phones"}, categories)

	brands, err := repo.Distinct(ctx, domain.FieldBrand)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, brands)

	_, err = repo.Distinct(ctx, domain.Field("rating"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pr, err := repo.PriceRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.PriceRange{Min: 0, Max: 290}, pr)
}

func TestProductRepository_Empty(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	pr, err := repo.PriceRange(ctx)
	require.NoError(t, err)
	assert.Nil(t, pr)

	categories, err := repo.Distinct(ctx, domain.FieldCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{}, categories)

	n, err := repo.EstimatedCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductRepository_InsertManyRejectsDuplicates(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	err := repo.InsertMany(ctx, []*domain.Product{{ID: "1"}, {ID: "1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err := repo.EstimatedCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected batch must not be partially stored")
}

func TestProductRepository_CanceledContext(t *testing.T) {
	repo := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Find(ctx, domain.Filter{}, 0, 9)
	assert.ErrorIs(t, err, context.Canceled)
}
