package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a user account and signs a session token for it.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login checks credentials and signs a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Authenticate resolves the user named by a session token.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// ProductListParams are the raw listing parameters before normalisation.
type ProductListParams struct {
	Query  string
	Active *bool
	Page   int
	Limit  int
}

// ProductService defines catalogue operations.
type ProductService interface {
	// List retrieves a page of products.
	List(ctx context.Context, params ProductListParams) (*model.ProductPage, error)

	// Get retrieves a product by ID or slug.
	Get(ctx context.Context, idOrSlug string) (*model.Product, error)

	// Create adds a product with a unique slug derived from its name.
	Create(ctx context.Context, req *model.ProductCreateRequest) (*model.Product, error)

	// Update applies a partial update.
	Update(ctx context.Context, id string, req *model.ProductUpdateRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// CartService defines shopping cart operations. Admin users are rejected.
type CartService interface {
	Get(ctx context.Context, user *model.User) (*model.Cart, error)
	AddItem(ctx context.Context, user *model.User, req *model.AddCartItemRequest) (*model.Cart, error)
	UpdateItem(ctx context.Context, user *model.User, itemID string, req *model.UpdateCartItemRequest) (*model.Cart, error)
	RemoveItem(ctx context.Context, user *model.User, itemID string) (*model.Cart, error)
	Clear(ctx context.Context, user *model.User) (*model.Cart, error)
}

// OrderService defines checkout and order management.
type OrderService interface {
	// Checkout turns the user's cart into an order and empties the cart atomically.
	Checkout(ctx context.Context, user *model.User, req *model.CheckoutRequest) (*model.Order, error)

	// List returns the user's orders, or every order for an admin asking for OrderScopeAll.
	List(ctx context.Context, user *model.User, scope model.OrderScope) ([]model.Order, error)

	// ListAll returns every order for the admin back office.
	ListAll(ctx context.Context) ([]model.Order, error)

	// Get returns an order visible to user.
	Get(ctx context.Context, user *model.User, id string) (*model.Order, error)

	// UpdateStatus changes status and/or payment status.
	UpdateStatus(ctx context.Context, id string, req *model.OrderStatusUpdateRequest) (*model.Order, error)
}

// UserService defines admin user management.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, req *model.UserUpdateRequest) (*model.User, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

// parseID parses a path identifier. Malformed identifiers resolve to notFound.
func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
