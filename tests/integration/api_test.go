//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/product_catalog/internal/config"
	httpDelivery "github.com/Pesokrava/product_catalog/internal/delivery/http"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/cache"
	"github.com/Pesokrava/product_catalog/internal/pkg/database"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/product_catalog/internal/repository/cache"
	"github.com/Pesokrava/product_catalog/internal/repository/postgres"
	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
	"github.com/Pesokrava/product_catalog/internal/usecase/product"
)

type testEnv struct {
	server   http.Handler
	db       *sqlx.DB
	redis    *redis.Client
	repo     *postgres.ProductRepository
	category string
}

func setupTestEnv(t *testing.T) *testEnv {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	productRepo := postgres.NewProductRepository(db)
	redisCache := cacheRepo.NewRedisCache(redisClient)

	catalogService := catalog.NewService(productRepo, log)
	lookupService := product.NewService(productRepo, redisCache, time.Hour, nil, log)

	router := httpDelivery.NewRouter(
		handler.NewProductHandler(catalogService, lookupService, log),
		handler.NewFilterHandler(catalogService, log),
		nil, nil, cfg, log,
	)

	env := &testEnv{
		server:   router.Setup(),
		db:       db,
		redis:    redisClient,
		repo:     productRepo,
		category: "it-" + uuid.NewString(),
	}

	t.Cleanup(func() {
		ctx := context.Background()
		ids := []string{}
		_ = db.SelectContext(ctx, &ids, "SELECT id FROM products WHERE category = $1", env.category)
		for _, id := range ids {
			redisClient.Del(ctx, product.CacheKey(id))
		}
		_, _ = db.ExecContext(ctx, "DELETE FROM products WHERE category = $1", env.category)
		redisClient.Close()
		db.Close()
	})

	return env
}

func (e *testEnv) insert(t *testing.T, products ...*domain.Product) {
	for _, p := range products {
		p.Category = e.category
		if p.Features == nil {
			p.Features = []string{}
		}
	}
	require.NoError(t, e.repo.InsertMany(context.Background(), products))
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListProductsByCategoryAndPrice(t *testing.T) {
	env := setupTestEnv(t)
	prefix := uuid.NewString()
	env.insert(t,
		&domain.Product{ID: prefix + "-1", Name: "Phone", Description: "Smart", Price: 10, Brand: "Acme"},
		&domain.Product{ID: prefix + "-2", Name: "Laptop", Description: "Portable", Price: 50, Brand: "Acme"},
		&domain.Product{ID: prefix + "-3", Name: "Tablet", Description: "Big screen", Price: 30, Brand: "Globex"},
	)

	w := env.get(t, fmt.Sprintf("/products?category=%s&minPrice=20", env.category))
	require.Equal(t, http.StatusOK, w.Code)

	var page catalog.Page
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 9, page.Limit)
	require.Len(t, page.Products, 2)
	assert.Equal(t, prefix+"-2", page.Products[0].ID)
	assert.Equal(t, prefix+"-3", page.Products[1].ID)
}

func TestGetProductIsCached(t *testing.T) {
	env := setupTestEnv(t)
	id := uuid.NewString()
	env.insert(t, &domain.Product{ID: id, Name: "Phone", Description: "Smart", Price: 10, Brand: "Acme", Features: []string{"5G"}})

	first := env.get(t, "/products/"+id)
	require.Equal(t, http.StatusOK, first.Code)

	ttl, err := env.redis.TTL(context.Background(), product.CacheKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	second := env.get(t, "/products/"+id)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGetMissingProductIsNotCached(t *testing.T) {
	env := setupTestEnv(t)
	id := uuid.NewString()

	w := env.get(t, "/products/"+id)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Product not found"}`, w.Body.String())

	exists, err := env.redis.Exists(context.Background(), product.CacheKey(id)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	env.insert(t, &domain.Product{ID: id, Name: "Late", Description: "Arrival", Price: 1, Brand: "Acme"})
	assert.Equal(t, http.StatusOK, env.get(t, "/products/"+id).Code)
}

func TestFilters(t *testing.T) {
	env := setupTestEnv(t)
	env.insert(t, &domain.Product{ID: uuid.NewString(), Name: "Phone", Description: "Smart", Price: 10, Brand: "Acme"})

	w := env.get(t, "/filters")
	require.Equal(t, http.StatusOK, w.Code)

	var meta catalog.FilterMetadata
	require.NoError(t, json.NewDecoder(w.Body).Decode(&meta))
	assert.Contains(t, meta.Categories, env.category)
	assert.LessOrEqual(t, meta.MinPrice, 10.0)
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get(t, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
