// Command seed upserts the default subscription catalog into the configured
// database. Products are keyed by the slug of their name, so running it twice
// leaves one row per product.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseDriver == repositories.DriverMemory {
		return errors.Errorf("DATABASE_DRIVER=%s has nothing to seed", cfg.DatabaseDriver)
	}
	lg, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	products := services.NewProductService(repositories.NewGORMProductRepository(db), lg)
	seeded, err := products.SeedCatalog(ctx, services.DefaultCatalog())
	if err != nil {
		return err
	}
	lg.Info("Catalog seeded", zap.Int("products", len(seeded)))
	return nil
}
