package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/Pesokrava/product_catalog/internal/config"
	"github.com/Pesokrava/product_catalog/internal/pkg/database"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/repository/postgres"
	"github.com/Pesokrava/product_catalog/internal/usecase/seed"
)

const (
	fileFlag            = "file"
	normalizeImagesFlag = "normalize-images"
	migrateFlag         = "migrate"
)

type flags struct {
	file            string
	normalizeImages bool
	migrate         bool
}

func parseFlags(cfg *config.Config) flags {
	var f flags
	pflag.StringVarP(&f.file, fileFlag, "f", cfg.Seed.File, "JSON array of products to load")
	pflag.BoolVar(&f.normalizeImages, normalizeImagesFlag, cfg.Seed.NormalizeImages, "derive image names from product names")
	pflag.BoolVar(&f.migrate, migrateFlag, cfg.Database.AutoMigrate, "apply database migrations before seeding")
	pflag.Parse()
	return f
}

func validateFlags(f flags, cfg *config.Config) error {
	var errs []error

	if f.file == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", fileFlag))
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		errs = append(errs, fmt.Errorf("seeding requires STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver))
	}

	return errors.Join(errs...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)

	f := parseFlags(cfg)
	if err := validateFlags(f, cfg); err != nil {
		pflag.Usage()
		appLogger.Fatal("Invalid arguments", err)
	}

	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if f.migrate {
		if err := database.RunMigrations(db); err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	file, err := os.Open(f.file)
	if err != nil {
		appLogger.Fatal("Failed to open seed file", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	service := seed.NewService(postgres.NewProductRepository(db), appLogger)
	result, err := service.SeedIfEmpty(ctx, file, seed.Options{NormalizeImages: f.normalizeImages})
	if err != nil {
		appLogger.Fatal("Failed to seed products", err)
	}

	if result.Seeded {
		appLogger.Infof("Seeded %d products from %s", result.Inserted, f.file)
	}
}
