package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// MaxItemQuantity is the largest quantity accepted for one cart line.
const MaxItemQuantity = model.MaxItemQuantity

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// cart checks the caller may use a cart and returns it, creating it if needed.
func (s *cartService) cart(ctx context.Context, user *model.User) (*model.Cart, error) {
	if user == nil {
		return nil, model.ErrAuthRequired
	}
	if user.IsAdmin() {
		return nil, model.ErrAdminCart
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// reload re-reads the cart after a mutation.
func (s *cartService) reload(ctx context.Context, user *model.User) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to reload cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// Get returns the user's cart.
func (s *cartService) Get(ctx context.Context, user *model.User) (*model.Cart, error) {
	return s.cart(ctx, user)
}

// addQuantity normalises the requested quantity: missing or non-finite
// values count as 1, fractions are truncated, and the result is at least 1.
func addQuantity(q *float64) (int, error) {
	if q == nil || math.IsNaN(*q) || math.IsInf(*q, 0) {
		return 1, nil
	}
	v := math.Trunc(*q)
	if v > MaxItemQuantity {
		return 0, model.NewValidationError(fmt.Sprintf("quantity must not exceed %d", MaxItemQuantity))
	}
	return max(1, int(v)), nil
}

// AddItem adds a product to the cart or increases the quantity of its line.
func (s *cartService) AddItem(ctx context.Context, user *model.User, req *model.AddCartItemRequest) (*model.Cart, error) {
	cart, err := s.cart(ctx, user)
	if err != nil {
		return nil, err
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, model.NewValidationError("productId is required")
	}
	quantity, err := addQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	id, err := parseID(productID, model.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if product == nil || !product.Active {
		return nil, model.ErrProductNotFound
	}

	item := &model.CartItem{
		ProductID: &product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	}
	if err := s.cartRepo.AddItem(ctx, cart.ID, item); err != nil {
		s.logger.Error().Err(err).
			Str("cart_id", cart.ID.String()).
			Str("product_id", productID).
			Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", user.ID.String()).
		Str("product_id", productID).
		Int("quantity", item.Quantity).
		Msg("cart item added")

	return s.reload(ctx, user)
}

// UpdateItem sets the quantity of a line. Quantities of zero or less remove it.
func (s *cartService) UpdateItem(ctx context.Context, user *model.User, itemID string, req *model.UpdateCartItemRequest) (*model.Cart, error) {
	cart, err := s.cart(ctx, user)
	if err != nil {
		return nil, err
	}

	if req.Quantity == nil || math.IsNaN(*req.Quantity) || math.IsInf(*req.Quantity, 0) {
		return nil, model.ErrInvalidQuantity
	}
	q := math.Trunc(*req.Quantity)
	if q > MaxItemQuantity {
		return nil, model.NewValidationError(fmt.Sprintf("quantity must not exceed %d", MaxItemQuantity))
	}

	id, err := parseID(itemID, model.ErrCartItemNotFound)
	if err != nil {
		return nil, err
	}

	var found bool
	if q <= 0 {
		found, err = s.cartRepo.RemoveItem(ctx, cart.ID, id)
	} else {
		found, err = s.cartRepo.SetItemQuantity(ctx, cart.ID, id, int(q))
	}
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !found {
		return nil, model.ErrCartItemNotFound
	}

	return s.reload(ctx, user)
}

// RemoveItem deletes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, user *model.User, itemID string) (*model.Cart, error) {
	cart, err := s.cart(ctx, user)
	if err != nil {
		return nil, err
	}

	id, err := parseID(itemID, model.ErrCartItemNotFound)
	if err != nil {
		return nil, err
	}

	found, err := s.cartRepo.RemoveItem(ctx, cart.ID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !found {
		return nil, model.ErrCartItemNotFound
	}

	return s.reload(ctx, user)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, user *model.User) (*model.Cart, error) {
	cart, err := s.cart(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	cart.Items = []model.CartItem{}
	return cart, nil
}
