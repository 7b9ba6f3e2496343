package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
)

// PageSize is the fixed number of products per listing page
const PageSize = 9

// maxPage is the last page whose offset fits in an int
const maxPage = math.MaxInt/PageSize + 1

// Page is one page of a filtered listing
type Page struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Products []*domain.Product `json:"products"`
}

// FilterMetadata describes the space of possible filters over the whole catalog
type FilterMetadata struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"`
}

// Service answers listing and filter metadata queries
type Service struct {
	repo   domain.ProductRepository
	logger *logger.Logger
}

// NewService creates a new catalog query service
func NewService(repo domain.ProductRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// List returns the requested page of products matching filter together with the total match count
func (s *Service) List(ctx context.Context, filter domain.Filter, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	var products []*domain.Product
	if page <= maxPage {
		var err error
		products, err = s.repo.Find(ctx, filter, (page-1)*PageSize, PageSize)
		if err != nil {
			s.logger.Error("Failed to list products", err)
			return nil, fmt.Errorf("list products: %w", err)
		}
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, fmt.Errorf("count products: %w", err)
	}

	if products == nil {
		products = []*domain.Product{}
	}

	s.logger.WithFields(map[string]interface{}{
		"page":     page,
		"returned": len(products),
		"total":    total,
	}).Debug("Products listed")

	return &Page{
		Total:    total,
		Page:     page,
		Limit:    PageSize,
		Products: products,
	}, nil
}

// FilterMetadata aggregates categories, brands and the price range of the unfiltered catalog.
// An empty catalog yields empty lists and a 0..0 price range.
func (s *Service) FilterMetadata(ctx context.Context) (*FilterMetadata, error) {
	categories, err := s.repo.Distinct(ctx, domain.FieldCategory)
	if err != nil {
		s.logger.Error("Failed to list categories", err)
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	brands, err := s.repo.Distinct(ctx, domain.FieldBrand)
	if err != nil {
		s.logger.Error("Failed to list brands", err)
		return nil, fmt.Errorf("distinct brands: %w", err)
	}

	priceRange, err := s.repo.PriceRange(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate price range", err)
		return nil, fmt.Errorf("price range: %w", err)
	}

	meta := &FilterMetadata{
		Categories: categories,
		Brands:     brands,
	}
	if meta.Categories == nil {
		meta.Categories = []string{}
	}
	if meta.Brands == nil {
		meta.Brands = []string{}
	}
	if priceRange != nil {
		meta.MinPrice = priceRange.Min
		meta.MaxPrice = priceRange.Max
	}

	return meta, nil
}
