// Command setup applies the storefront schema and seeds the product catalog.
// It is idempotent: existing tables are kept and seeding is skipped when the
// catalog already has rows.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/api/internal/platform/config"
	"github.com/techstore/api/internal/platform/observability"
	platformpg "github.com/techstore/api/internal/platform/postgres"
	postgresRepo "github.com/techstore/api/internal/repositories/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("setup")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	provider := platformpg.NewProvider(platformpg.Config{
		URL:      cfg.Database.URL,
		MaxConns: 2,
	})
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = provider.Close(closeCtx)
	}()

	pool, err := provider.Pool(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := postgresRepo.ApplySchema(ctx, pool); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}
	logger.Info("schema applied")

	seeded, err := postgresRepo.SeedCatalog(ctx, pool)
	if err != nil {
		logger.Fatal("failed to seed catalog", zap.Error(err))
	}
	if seeded > 0 {
		logger.Info("catalog seeded", zap.Int("products", seeded))
	} else {
		logger.Info("catalog already populated; seeding skipped")
	}
}
