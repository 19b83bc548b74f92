// Command seed imports catalog files into the product store.
//
//	seed -mode=replace data/catalog/products.jsonl.gz
//
// With no file arguments the SEED_FILES setting is used.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
	"storefront/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	modeFlag := flag.String("mode", string(catalog.ModeReplace), "import mode: replace or upsert")
	flag.Parse()

	mode, err := catalog.ParseMode(*modeFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := flag.Args()
	if len(files) == 0 {
		files = cfg.Seed.Files
	}
	if len(files) == 0 {
		return fmt.Errorf("no catalog files given")
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	fileLoader := catalog.NewFileLoader(logger)
	var loader catalog.Loader = fileLoader
	if cfg.S3.Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local files only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
		}
	}

	records, err := catalog.LoadAll(ctx, loader, files, logger)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(pool, logger)
	importer := catalog.NewImporter(service.NewProductService(productRepo, logger), productRepo, logger)

	n, err := importer.Import(ctx, records, mode)
	if err != nil {
		return fmt.Errorf("import stopped after %d products: %w", n, err)
	}

	logger.Info().
		Str("mode", string(mode)).
		Int("products", n).
		Msg("catalog import completed")
	return nil
}
