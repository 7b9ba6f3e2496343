package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/pkg/metrics"
)

// DefaultCacheTTL is how long a cached product snapshot stays valid
const DefaultCacheTTL = time.Hour

const cacheKeyPrefix = "product:"

// Cache is a key/value store with expiring entries.
// Get returns domain.ErrCacheMiss when the key holds no live entry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Service serves single product lookups through a cache-aside cache
type Service struct {
	repo    domain.ProductRepository
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates a new product lookup service.
// A non-positive ttl falls back to DefaultCacheTTL; m may be nil.
func NewService(repo domain.ProductRepository, cache Cache, ttl time.Duration, m *metrics.Metrics, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  log,
	}
}

// CacheKey returns the cache key holding the snapshot of product id
func CacheKey(id string) string {
	return cacheKeyPrefix + id
}

// GetByID returns the product with the given id, from cache when possible.
// A cached snapshot is served without consulting the store, so it may outlive
// the stored record for up to the TTL. Absence is never cached.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	key := CacheKey(id)

	if product, ok := s.fromCache(ctx, key); ok {
		return product, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	s.toCache(ctx, key, product)
	return product, nil
}

// fromCache reads and decodes a cached snapshot; any failure counts as a miss
func (s *Service) fromCache(ctx context.Context, key string) (*domain.Product, bool) {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			s.metrics.CacheLookup(metrics.CacheMiss)
			s.logger.Debugf("Cache miss for %s", key)
		} else {
			s.metrics.CacheLookup(metrics.CacheError)
			s.logger.Warnf("Cache read failed for %s, falling back to store: %v", key, err)
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		s.metrics.CacheLookup(metrics.CacheError)
		s.logger.Warnf("Discarding undecodable cache entry %s: %v", key, err)
		return nil, false
	}

	s.metrics.CacheLookup(metrics.CacheHit)
	s.logger.Debugf("Cache hit for %s", key)
	return &product, true
}

// toCache stores a snapshot; failures are logged and otherwise ignored
func (s *Service) toCache(ctx context.Context, key string, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		s.logger.Warnf("Failed to encode product %s for cache: %v", product.ID, err)
		return
	}

	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		s.logger.Warnf("Failed to cache product %s: %v", product.ID, err)
	}
}
