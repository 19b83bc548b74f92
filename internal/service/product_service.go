package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultProductLimit = 30
	MaxProductLimit     = 100

	// maxSlugAttempts bounds the numeric suffixes tried before falling back
	// to a random suffix.
	maxSlugAttempts = 20
)

// MakeSlug derives the base URL slug for a product name.
func MakeSlug(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "product"
	}
	return s
}

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves a page of products. Page is at least 1 and limit is clamped
// to [1, MaxProductLimit]; callers supply DefaultProductLimit when the client
// gave none.
func (s *productService) List(ctx context.Context, params ProductListParams) (*model.ProductPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := min(MaxProductLimit, max(1, params.Limit))

	filter := model.ProductFilter{
		Query:  strings.TrimSpace(params.Query),
		Active: params.Active,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", page).
			Int("limit", limit).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("page", page).
		Msg("retrieved products")

	return &model.ProductPage{
		Items: products,
		Total: total,
		Page:  page,
		Pages: (total + limit - 1) / limit,
	}, nil
}

// Get retrieves a product by ID or slug.
func (s *productService) Get(ctx context.Context, idOrSlug string) (*model.Product, error) {
	if idOrSlug == "" {
		return nil, model.ErrProductNotFound
	}

	var (
		product *model.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.productRepo.GetByID(ctx, id)
	} else {
		product, err = s.productRepo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("product", idOrSlug).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product", idOrSlug).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a product with a unique slug derived from its name.
func (s *productService) Create(ctx context.Context, req *model.ProductCreateRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price == nil {
		return nil, model.NewValidationError("Name and price are required")
	}
	price, err := normalizePrice(*req.Price)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        name,
		Description: req.Description,
		Price:       price,
		Image:       req.Image,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	err = s.withUniqueSlug(product, func() error {
		return s.productRepo.Create(ctx, product)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("slug", product.Slug).
		Msg("product created")

	return product, nil
}

// Update applies a partial update. A name change regenerates the slug.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductUpdateRequest) (*model.Product, error) {
	productID, err := parseID(id, model.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.NewValidationError("Name must not be empty")
		}
		renamed = name != product.Name
		product.Name = name
	}
	if req.Price != nil {
		price, err := normalizePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	found := true
	save := func() error {
		var err error
		found, err = s.productRepo.Update(ctx, product)
		return err
	}

	if renamed || product.Slug == "" {
		err = s.withUniqueSlug(product, save)
	} else {
		err = save()
	}
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")

	return product, nil
}

// Delete removes a product. Cart and order snapshots are untouched.
func (s *productService) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id, model.ErrProductNotFound)
	if err != nil {
		return err
	}

	deleted, err := s.productRepo.Delete(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// normalizePrice rounds price to cents and checks it fits the catalogue column.
func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if rounded.IsNegative() {
		return decimal.Zero, model.NewValidationError("Price must not be negative")
	}
	if rounded.GreaterThanOrEqual(model.MaxPrice) {
		return decimal.Zero, model.NewValidationError("Price is too large")
	}
	return rounded, nil
}

// withUniqueSlug runs save with product.Slug set to the name's slug, retrying
// with numeric suffixes while the slug is taken.
func (s *productService) withUniqueSlug(product *model.Product, save func() error) error {
	base := MakeSlug(product.Name)

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		product.Slug = base
		if attempt > 1 {
			product.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		err := save()
		if !errors.Is(err, model.ErrSlugInUse) {
			return err
		}
		s.logger.Debug().Str("slug", product.Slug).Msg("slug taken, retrying")
	}

	product.Slug = base + "-" + uuid.NewString()[:8]
	return save()
}
