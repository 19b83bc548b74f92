package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// MaxOwnOrders caps GET /orders.
	MaxOwnOrders = 200
	// MaxAdminOrders caps GET /admin/orders.
	MaxAdminOrders = 500
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// Checkout snapshots the cart into a pending order and empties the cart in
// one transaction.
func (s *orderService) Checkout(ctx context.Context, user *model.User, req *model.CheckoutRequest) (order *model.Order, err error) {
	if user == nil {
		return nil, model.ErrAuthRequired
	}
	if user.IsAdmin() {
		return nil, model.ErrAdminCheckout
	}

	paymentStatus := model.PaymentStatusUnpaid
	if ps := strings.TrimSpace(req.PaymentStatus); ps != "" {
		paymentStatus = model.PaymentStatus(ps)
		if !paymentStatus.Valid() {
			return nil, model.NewValidationError("Invalid payment status")
		}
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.LockForCheckout(ctx, tx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	now := s.now()
	order = &model.Order{
		ID:            uuid.New(),
		UserID:        &user.ID,
		User:          &model.OrderOwner{ID: user.ID, Name: user.Name, Email: user.Email},
		Status:        model.OrderStatusPending,
		PaymentMethod: paymentMethod,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	}

	subtotal := decimal.Zero
	order.Items = make([]model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Position:  i,
		}
		subtotal = subtotal.Add(order.Items[i].LineTotal())
	}
	order.Subtotal = subtotal

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.cartRepo.ClearTx(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", user.ID.String()).
		Int("item_count", len(order.Items)).
		Str("subtotal", order.Subtotal.StringFixed(2)).
		Msg("order created successfully")

	return order, nil
}

// List returns the user's orders. Admins asking for OrderScopeAll see every order.
func (s *orderService) List(ctx context.Context, user *model.User, scope model.OrderScope) ([]model.Order, error) {
	if user == nil {
		return nil, model.ErrAuthRequired
	}

	var owner *uuid.UUID
	if !(user.IsAdmin() && scope == model.OrderScopeAll) {
		owner = &user.ID
	}

	orders, err := s.orderRepo.List(ctx, owner, MaxOwnOrders)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, nil, MaxAdminOrders)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns an order if user owns it or is an admin.
func (s *orderService) Get(ctx context.Context, user *model.User, id string) (*model.Order, error) {
	if user == nil {
		return nil, model.ErrAuthRequired
	}

	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(user.ID) && !user.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id).
			Str("user_id", user.ID.String()).
			Msg("order access denied")
		return nil, model.ErrOrderAccessDenied
	}

	return order, nil
}

func (s *orderService) get(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := parseID(id, model.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus changes status and/or payment status. Empty values are ignored.
func (s *orderService) UpdateStatus(ctx context.Context, id string, req *model.OrderStatusUpdateRequest) (*model.Order, error) {
	orderID, err := parseID(id, model.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	var (
		status        *model.OrderStatus
		paymentStatus *model.PaymentStatus
	)
	if req.Status != nil && *req.Status != "" {
		st := model.OrderStatus(*req.Status)
		if !st.Valid() {
			return nil, model.NewValidationError("Invalid order status")
		}
		status = &st
	}
	if req.PaymentStatus != nil && *req.PaymentStatus != "" {
		ps := model.PaymentStatus(*req.PaymentStatus)
		if !ps.Valid() {
			return nil, model.NewValidationError("Invalid payment status")
		}
		paymentStatus = &ps
	}

	if status != nil || paymentStatus != nil {
		found, err := s.orderRepo.UpdateStatus(ctx, orderID, status, paymentStatus)
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		if !found {
			return nil, model.ErrOrderNotFound
		}

		s.logger.Info().
			Str("order_id", id).
			Interface("status", status).
			Interface("payment_status", paymentStatus).
			Msg("order status updated")
	}

	return s.get(ctx, id)
}
