package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetOrCreate returns the user's cart with its items, creating it on first access.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	// Concurrent first accesses race on the insert; the unique user_id
	// constraint leaves exactly one cart and both callers read it back.
	_, err := r.pool.Exec(ctx, `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var cart model.Cart
	err = r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	cart.Items, err = r.items(ctx, r.pool, cart.ID, false)
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// items loads the cart's lines. With lock set the rows stay locked until the
// surrounding transaction ends, so merges and edits of those lines wait.
func (r *cartRepository) items(ctx context.Context, q querier, cartID uuid.UUID, lock bool) ([]model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, name, price, image, quantity, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, id
	`
	if lock {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Name, &item.Price, &item.Image, &item.Quantity, &item.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// AddItem appends item or merges its quantity into the existing line for the
// product. Merged quantities are capped at model.MaxItemQuantity.
func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, name, price, image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $7)
		RETURNING id, quantity, name, price, image, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		cartID, item.ProductID, item.Name, item.Price, item.Image, item.Quantity, model.MaxItemQuantity,
	).Scan(&item.ID, &item.Quantity, &item.Name, &item.Price, &item.Image, &item.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	item.CartID = cartID

	r.touch(ctx, cartID)

	r.logger.Debug().
		Str("cart_id", cartID.String()).
		Str("item_id", item.ID.String()).
		Int("quantity", item.Quantity).
		Msg("cart item saved")

	return nil
}

// SetItemQuantity overwrites the quantity of one line.
func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`,
		cartID, itemID, quantity,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	r.touch(ctx, cartID)
	return true, nil
}

// RemoveItem deletes one line.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	r.touch(ctx, cartID)
	return true, nil
}

// Clear deletes every line of the cart.
func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.touch(ctx, cartID)
	return nil
}

// LockForCheckout row-locks the user's cart and its items inside tx. New lines
// wait on the cart lock through the foreign key; existing lines wait on their
// own row locks.
func (r *cartRepository) LockForCheckout(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := tx.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	cart.Items, err = r.items(ctx, tx, cart.ID, true)
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// ClearTx deletes every line of the cart inside tx.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}

// touch bumps the cart's updated_at; failures are logged only.
func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) {
	if _, err := r.pool.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", cartID.String()).Msg("failed to touch cart")
	}
}
