package catalog

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// Mode selects how an import treats the existing catalog.
type Mode string

const (
	// ModeReplace deletes every product before inserting the records.
	ModeReplace Mode = "replace"
	// ModeUpsert inserts new products and overwrites those with the same slug.
	ModeUpsert Mode = "upsert"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeReplace, ModeUpsert:
		return m, nil
	}
	return "", fmt.Errorf("unknown import mode %q (must be replace or upsert)", s)
}

// Importer writes catalog records into the product store.
type Importer struct {
	products service.ProductService
	repo     repository.ProductRepository
	logger   zerolog.Logger
}

// NewImporter creates an importer. Replace mode goes through products so
// records get the same validation and slug handling as admin-created ones.
func NewImporter(products service.ProductService, repo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		products: products,
		repo:     repo,
		logger:   logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// validate checks every record before the catalog is touched.
func validate(records []Record) error {
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return fmt.Errorf("record %d: name is required", i+1)
		}
		if rec.Price.IsNegative() {
			return fmt.Errorf("record %d (%s): price must not be negative", i+1, rec.Name)
		}
		if rec.Price.Round(2).GreaterThanOrEqual(model.MaxPrice) {
			return fmt.Errorf("record %d (%s): price must be below %s", i+1, rec.Name, model.MaxPrice)
		}
	}
	return nil
}

// Import applies records in the given mode and returns how many products
// were written.
func (im *Importer) Import(ctx context.Context, records []Record, mode Mode) (int, error) {
	if err := validate(records); err != nil {
		return 0, err
	}

	switch mode {
	case ModeReplace:
		return im.replace(ctx, records)
	case ModeUpsert:
		return im.upsert(ctx, records)
	}
	return 0, fmt.Errorf("unknown import mode %q", mode)
}

func (im *Importer) replace(ctx context.Context, records []Record) (int, error) {
	deleted, err := im.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	im.logger.Info().Int64("deleted", deleted).Msg("catalog cleared")

	for i := range records {
		rec := &records[i]
		_, err := im.products.Create(ctx, &model.ProductCreateRequest{
			Name:        rec.Name,
			Price:       &rec.Price,
			Image:       rec.Image,
			Description: rec.Description,
			Active:      rec.Active,
		})
		if err != nil {
			return i, fmt.Errorf("failed to import %q: %w", rec.Name, err)
		}
	}

	im.logger.Info().Int("created", len(records)).Msg("catalog replaced")
	return len(records), nil
}

func (im *Importer) upsert(ctx context.Context, records []Record) (int, error) {
	for i, rec := range records {
		product := &model.Product{
			Name:        strings.TrimSpace(rec.Name),
			Slug:        service.MakeSlug(rec.Name),
			Description: rec.Description,
			Price:       rec.Price.Round(2),
			Image:       rec.Image,
			Active:      rec.Active == nil || *rec.Active,
		}
		if err := im.repo.UpsertBySlug(ctx, product); err != nil {
			return i, fmt.Errorf("failed to import %q: %w", rec.Name, err)
		}
	}

	im.logger.Info().Int("upserted", len(records)).Msg("catalog upserted")
	return len(records), nil
}

// SeedIfEmpty imports records in replace mode when the catalog has no
// products. It reports whether it imported anything.
func (im *Importer) SeedIfEmpty(ctx context.Context, load func(context.Context) ([]Record, error)) (bool, error) {
	count, err := im.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		im.logger.Info().Int("products", count).Msg("catalog not empty, skipping seed")
		return false, nil
	}

	records, err := load(ctx)
	if err != nil {
		return false, err
	}
	if _, err := im.Import(ctx, records, ModeReplace); err != nil {
		return false, err
	}
	return true, nil
}
