package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Pesokrava/product_catalog/internal/config"
	httpDelivery "github.com/Pesokrava/product_catalog/internal/delivery/http"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/product_catalog/internal/domain"
	"github.com/Pesokrava/product_catalog/internal/pkg/cache"
	"github.com/Pesokrava/product_catalog/internal/pkg/database"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/pkg/metrics"
	"github.com/Pesokrava/product_catalog/internal/pkg/tracing"
	cacheRepo "github.com/Pesokrava/product_catalog/internal/repository/cache"
	"github.com/Pesokrava/product_catalog/internal/repository/memory"
	"github.com/Pesokrava/product_catalog/internal/repository/postgres"
	tracingRepo "github.com/Pesokrava/product_catalog/internal/repository/tracing"
	"github.com/Pesokrava/product_catalog/internal/usecase/catalog"
	"github.com/Pesokrava/product_catalog/internal/usecase/product"
	"github.com/Pesokrava/product_catalog/internal/usecase/seed"

	_ "github.com/Pesokrava/product_catalog/docs"
)

// @title Product Catalog API
// @version 1.0
// @description Product catalog query service with filtering, pagination and cached lookups.

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/product_catalog

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /
// @schemes http https

// @tag.name Products
// @tag.description Catalog listing and lookup endpoints

// @tag.name Filters
// @tag.description Filter metadata endpoints

// catalogStore is what the api needs from a backend: reads plus seeding
type catalogStore interface {
	domain.ProductRepository
	domain.ProductWriter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Product Catalog API...")

	tp, err := tracing.Init(cfg, appLogger)
	if err != nil {
		appLogger.Warnf("Tracing unavailable, continuing without it: %v", err)
	}

	store, db := openStore(cfg, appLogger)
	if db != nil {
		defer db.Close()
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	if err != nil {
		appLogger.Warnf("Redis unavailable, product lookups will be served from the store until it recovers: %v", err)
	} else {
		appLogger.Info("Connected to Redis successfully")
	}
	defer redisClient.Close()

	if cfg.Seed.File != "" {
		seedCatalog(cfg, store, appLogger)
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	productRepo := tracingRepo.NewProductRepository(store)
	redisCache := cacheRepo.NewRedisCache(redisClient)

	catalogService := catalog.NewService(productRepo, appLogger)
	lookupService := product.NewService(productRepo, redisCache, cfg.Cache.ProductTTL, appMetrics, appLogger)

	productHandler := handler.NewProductHandler(catalogService, lookupService, appLogger)
	filterHandler := handler.NewFilterHandler(catalogService, appLogger)

	router := httpDelivery.NewRouter(productHandler, filterHandler, appMetrics, promhttp.Handler(), cfg, appLogger)
	httpHandler := otelhttp.NewHandler(router.Setup(), "catalog-api")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	if err := tracing.Shutdown(ctx, tp); err != nil {
		appLogger.Error("Failed to flush traces", err)
	}

	appLogger.Info("Server stopped gracefully")
}

// openStore builds the configured catalog backend. db is nil for the memory store.
func openStore(cfg *config.Config, appLogger *logger.Logger) (catalogStore, *sqlx.DB) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		appLogger.Warn("Using in-memory catalog store, data is lost on restart")
		return memory.NewProductRepository(), nil
	}

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	appLogger.Info("Connected to PostgreSQL successfully")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	return postgres.NewProductRepository(db), db
}

// seedCatalog loads SEED_FILE into an empty store. Failures do not stop the api.
func seedCatalog(cfg *config.Config, writer domain.ProductWriter, appLogger *logger.Logger) {
	f, err := os.Open(cfg.Seed.File)
	if err != nil {
		appLogger.Error("Failed to open seed file", err)
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := seed.NewService(writer, appLogger).SeedIfEmpty(ctx, f, seed.Options{
		NormalizeImages: cfg.Seed.NormalizeImages,
	})
	if err != nil {
		appLogger.Error("Failed to seed products", err)
		return
	}
	if result.Seeded {
		appLogger.Infof("Seeded %d products", result.Inserted)
	}
}
