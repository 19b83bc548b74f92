package repository

import (
	"context"
	"errors"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a user and fills in its ID and timestamps.
	// Returns model.ErrEmailInUse when the email is taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail looks up a user by lower-cased email. Returns nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns users newest first.
	List(ctx context.Context, limit int) ([]model.User, error)

	// Update changes name and/or role. Nil fields are left untouched.
	// Returns nil, nil when the user does not exist.
	Update(ctx context.Context, id uuid.UUID, name *string, role *model.Role) (*model.User, error)

	// Delete removes a user; the owned cart goes with it.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves a filtered page of products, newest first, and the total match count.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetBySlug retrieves a single product by its slug. Returns nil, nil when absent.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// Create inserts a product. Returns model.ErrSlugInUse on a slug collision.
	Create(ctx context.Context, product *model.Product) error

	// Update persists every mutable field of product. Returns model.ErrSlugInUse
	// on a slug collision and false when the product no longer exists.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Cart and order snapshots keep their copies.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// UpsertBySlug inserts product or overwrites the product holding the same slug.
	UpsertBySlug(ctx context.Context, product *model.Product) error

	// DeleteAll removes every product and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)

	// Count returns the number of products.
	Count(ctx context.Context) (int, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem appends item to the cart, or adds its quantity to the existing
	// line for the same product in a single statement.
	AddItem(ctx context.Context, cartID uuid.UUID, item *model.CartItem) error

	// SetItemQuantity overwrites the quantity of one line. Returns false when
	// the line is not in the cart.
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error)

	// RemoveItem deletes one line. Returns false when the line is not in the cart.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)

	// Clear deletes every line of the cart.
	Clear(ctx context.Context, cartID uuid.UUID) error

	// LockForCheckout row-locks the user's cart inside tx and returns it with
	// its items. Returns nil, nil when the user has no cart.
	LockForCheckout(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// ClearTx deletes every line of the cart inside tx.
	ClearTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items and owner.
	// Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns orders newest first. A nil userID lists every order.
	List(ctx context.Context, userID *uuid.UUID, limit int) ([]model.Order, error)

	// UpdateStatus sets status and/or payment status. Nil fields are left
	// untouched. Returns false when the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status *model.OrderStatus, paymentStatus *model.PaymentStatus) (bool, error)
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure,
// optionally restricted to one constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
