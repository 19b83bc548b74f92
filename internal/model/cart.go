package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxItemQuantity is the largest quantity one cart line can hold.
const MaxItemQuantity = 10000

// Cart is the single shopping cart owned by a user.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a line in a cart. Name, price and image are copied from the
// product when the line is created; ProductID is nil once the product is gone.
type CartItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CartID    uuid.UUID       `json:"-" db:"cart_id"`
	ProductID *uuid.UUID      `json:"product" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Image     string          `json:"image" db:"image"`
	Quantity  int             `json:"quantity" db:"quantity"`
	CreatedAt time.Time       `json:"-" db:"created_at"`
}

// AddCartItemRequest is the payload of POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID string   `json:"productId"`
	Quantity  *float64 `json:"quantity,omitempty"`
}

// UpdateCartItemRequest is the payload of PATCH /api/cart/items/{itemId}.
type UpdateCartItemRequest struct {
	Quantity *float64 `json:"quantity"`
}
