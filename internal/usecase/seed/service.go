package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	sharedValidator "github.com/Pesokrava/product_catalog/internal/pkg/validator"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeImage derives the image file name from a product name:
// whitespace runs become dashes and the .webp extension is appended.
func NormalizeImage(name string) string {
	return whitespace.ReplaceAllString(name, "-") + ".webp"
}

// Options tune how seed data is prepared
type Options struct {
	NormalizeImages bool
}

// Result reports what a seeding run did
type Result struct {
	Seeded   bool
	Inserted int
}

// Service loads the catalog from a JSON document into an empty store
type Service struct {
	writer   domain.ProductWriter
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new seeding service
func NewService(writer domain.ProductWriter, log *logger.Logger) *Service {
	return &Service{
		writer:   writer,
		validate: sharedValidator.Get(),
		logger:   log,
	}
}

// SeedIfEmpty inserts the products decoded from r when the store holds none.
// A populated store is left untouched and r is not read.
func (s *Service) SeedIfEmpty(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	count, err := s.writer.EstimatedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		s.logger.Infof("Products collection already contains %d documents, skipping seed", count)
		return &Result{}, nil
	}

	s.logger.Info("Products collection is empty. Seeding...")

	products, err := s.decode(r, opts)
	if err != nil {
		return nil, err
	}

	if err := s.writer.InsertMany(ctx, products); err != nil {
		return nil, fmt.Errorf("insert products: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"inserted": len(products),
	}).Info("Products collection seeded")

	return &Result{Seeded: true, Inserted: len(products)}, nil
}

// record accepts both "id" and the document-store style "_id" key
type record struct {
	domain.Product
	DocumentID string `json:"_id"`
}

func (s *Service) decode(r io.Reader, opts Options) ([]*domain.Product, error) {
	var records []*record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	products := make([]*domain.Product, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("product #%d is null: %w", i, domain.ErrInvalidInput)
		}
		p := &rec.Product
		if p.ID == "" {
			p.ID = rec.DocumentID
		}
		if opts.NormalizeImages && p.Name != "" {
			p.Image = NormalizeImage(p.Name)
		}
		if p.Features == nil {
			p.Features = []string{}
		}
		if err := s.validate.Struct(p); err != nil {
			return nil, fmt.Errorf("product #%d (%s): %v: %w", i, p.ID, err, domain.ErrInvalidInput)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product #%d: duplicate id %s: %w", i, p.ID, domain.ErrInvalidInput)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	return products, nil
}
