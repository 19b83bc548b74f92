package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound of a stored price (NUMERIC(12,2)).
var MaxPrice = decimal.New(1, 10)

// Product represents an item in the storefront catalogue.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Active      bool            `json:"active" db:"active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Query  string
	Active *bool
	Limit  int
	Offset int
}

// ProductPage is the response of GET /api/products.
type ProductPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

// ProductCreateRequest is the payload of POST /api/products.
type ProductCreateRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Active      *bool            `json:"active,omitempty"`
}

// ProductUpdateRequest is the payload of PATCH /api/products/{id}.
// Nil fields are left untouched.
type ProductUpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Description *string          `json:"description,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}
