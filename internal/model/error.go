package model

import (
	"errors"
	"net/http"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind string

// Error kinds understood by the HTTP layer.
const (
	KindValidation ErrorKind = "VALIDATION"
	KindAuth       ErrorKind = "UNAUTHORIZED"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
)

// HTTPStatus maps the kind to a response status. Unknown kinds are 500.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// DomainError is a business-rule failure whose message is safe to show to clients.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Message: message,
	}
}

func NewValidationError(message string) *DomainError { return NewDomainError(KindValidation, message) }
func NewAuthError(message string) *DomainError       { return NewDomainError(KindAuth, message) }
func NewForbiddenError(message string) *DomainError  { return NewDomainError(KindForbidden, message) }
func NewNotFoundError(message string) *DomainError   { return NewDomainError(KindNotFound, message) }
func NewConflictError(message string) *DomainError   { return NewDomainError(KindConflict, message) }

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}

// Common domain errors
var (
	ErrAuthRequired       = NewAuthError("Authentication required")
	ErrInvalidToken       = NewAuthError("Invalid token")
	ErrInvalidCredentials = NewAuthError("Invalid credentials")
	ErrAdminRequired      = NewForbiddenError("Admin access required")
	ErrAdminCart          = NewForbiddenError("Admin accounts cannot use cart")
	ErrAdminCheckout      = NewForbiddenError("Admin accounts cannot place orders")
	ErrOrderAccessDenied  = NewForbiddenError("Access denied")
	ErrSelfDelete         = NewForbiddenError("Admins cannot delete their own account")
	ErrEmailInUse         = NewConflictError("Email already in use")
	ErrSlugInUse          = NewConflictError("Product slug already in use")
	ErrProductNotFound    = NewNotFoundError("Product not found")
	ErrCartItemNotFound   = NewNotFoundError("Cart item not found")
	ErrOrderNotFound      = NewNotFoundError("Order not found")
	ErrUserNotFound       = NewNotFoundError("User not found")
	ErrCartEmpty          = NewValidationError("Cart is empty")
	ErrInvalidQuantity    = NewValidationError("quantity must be a number")
)
