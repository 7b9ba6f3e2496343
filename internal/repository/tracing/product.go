package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Pesokrava/product_catalog/internal/domain"
)

const tracerName = "catalog-repository"

// ProductRepository wraps a domain.ProductRepository with OpenTelemetry spans
type ProductRepository struct {
	next   domain.ProductRepository
	tracer trace.Tracer
}

// NewProductRepository wraps next using the global tracer provider
func NewProductRepository(next domain.ProductRepository) *ProductRepository {
	return NewProductRepositoryWithTracer(next, otel.Tracer(tracerName))
}

// NewProductRepositoryWithTracer wraps next using an explicit tracer
func NewProductRepositoryWithTracer(next domain.ProductRepository, tracer trace.Tracer) *ProductRepository {
	return &ProductRepository{next: next, tracer: tracer}
}

func filterAttributes(f domain.Filter) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("filter.search_term", f.SearchTerm),
		attribute.String("filter.category", f.Category),
		attribute.String("filter.brand", f.Brand),
	}
	if f.MinPrice != nil {
		attrs = append(attrs, attribute.Float64("filter.min_price", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		attrs = append(attrs, attribute.Float64("filter.max_price", *f.MaxPrice))
	}
	return attrs
}

// end records err on span unless it is an expected not-found
func end(span trace.Span, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Find with tracing
func (r *ProductRepository) Find(ctx context.Context, filter domain.Filter, skip, limit int) ([]*domain.Product, error) {
	attrs := append(filterAttributes(filter), attribute.Int("page.skip", skip), attribute.Int("page.limit", limit))
	ctx, span := r.tracer.Start(ctx, "repository.Find", trace.WithAttributes(attrs...))

	products, err := r.next.Find(ctx, filter, skip, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(products)))
	}
	end(span, err)
	return products, err
}

// Count with tracing
func (r *ProductRepository) Count(ctx context.Context, filter domain.Filter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Count", trace.WithAttributes(filterAttributes(filter)...))

	count, err := r.next.Count(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.total", count))
	}
	end(span, err)
	return count, err
}

// GetByID with tracing
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.GetByID", trace.WithAttributes(attribute.String("product.id", id)))

	product, err := r.next.GetByID(ctx, id)
	span.SetAttributes(attribute.Bool("product.found", err == nil))
	end(span, err)
	return product, err
}

// Distinct with tracing
func (r *ProductRepository) Distinct(ctx context.Context, field domain.Field) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Distinct", trace.WithAttributes(attribute.String("field", string(field))))

	values, err := r.next.Distinct(ctx, field)
	end(span, err)
	return values, err
}

// PriceRange with tracing
func (r *ProductRepository) PriceRange(ctx context.Context) (*domain.PriceRange, error) {
	ctx, span := r.tracer.Start(ctx, "repository.PriceRange")

	pr, err := r.next.PriceRange(ctx)
	end(span, err)
	return pr, err
}
