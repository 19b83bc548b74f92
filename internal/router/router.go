package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
}

// Options configures the middleware around the routes.
type Options struct {
	Authenticator  middleware.Authenticator
	CORSOrigins    []string
	AuthLimiter    *middleware.RateLimiter
	GeneralLimiter *middleware.RateLimiter
}

type wrapper func(http.Handler) http.Handler

// chain applies wrappers so that the first one runs first.
func chain(h http.HandlerFunc, wrappers ...wrapper) http.Handler {
	var out http.Handler = h
	for i := len(wrappers) - 1; i >= 0; i-- {
		out = wrappers[i](out)
	}
	return out
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	authn := middleware.Authenticate(opts.Authenticator, logger)
	admin := middleware.RequireRole(model.RoleAdmin)
	noAdminCart := middleware.ForbidRole(model.RoleAdmin, model.ErrAdminCart)
	noAdminCheckout := middleware.ForbidRole(model.RoleAdmin, model.ErrAdminCheckout)

	var authLimit []wrapper
	if opts.AuthLimiter != nil {
		authLimit = append(authLimit, opts.AuthLimiter.Middleware)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /api/health", handler.Health)

	// Auth
	mux.Handle("POST /api/auth/register", chain(h.Auth.Register, authLimit...))
	mux.Handle("POST /api/auth/login", chain(h.Auth.Login, authLimit...))
	mux.Handle("POST /api/auth/logout", chain(h.Auth.Logout, authn))
	mux.Handle("GET /api/auth/me", chain(h.Auth.Me, authn))

	// Catalogue: public reads, admin writes
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{idOrSlug}", h.Product.Get)
	mux.Handle("POST /api/products", chain(h.Product.Create, authn, admin))
	mux.Handle("PATCH /api/products/{id}", chain(h.Product.Update, authn, admin))
	mux.Handle("DELETE /api/products/{id}", chain(h.Product.Delete, authn, admin))

	// Cart (customers only)
	mux.Handle("GET /api/cart", chain(h.Cart.Get, authn, noAdminCart))
	mux.Handle("DELETE /api/cart", chain(h.Cart.Clear, authn, noAdminCart))
	mux.Handle("POST /api/cart/items", chain(h.Cart.AddItem, authn, noAdminCart))
	mux.Handle("PATCH /api/cart/items/{itemId}", chain(h.Cart.UpdateItem, authn, noAdminCart))
	mux.Handle("DELETE /api/cart/items/{itemId}", chain(h.Cart.RemoveItem, authn, noAdminCart))

	// Orders
	mux.Handle("POST /api/orders", chain(h.Order.Create, authn, noAdminCheckout))
	mux.Handle("GET /api/orders", chain(h.Order.List, authn))
	mux.Handle("GET /api/orders/{id}", chain(h.Order.GetByID, authn))
	mux.Handle("PATCH /api/orders/{id}/status", chain(h.Order.UpdateStatus, authn, admin))

	// Admin back office
	mux.Handle("GET /api/admin/users", chain(h.Admin.ListUsers, authn, admin))
	mux.Handle("PATCH /api/admin/users/{id}", chain(h.Admin.UpdateUser, authn, admin))
	mux.Handle("DELETE /api/admin/users/{id}", chain(h.Admin.DeleteUser, authn, admin))
	mux.Handle("GET /api/admin/orders", chain(h.Admin.ListOrders, authn, admin))

	mux.HandleFunc("/", middleware.NotFound)

	// Apply middleware in order: Recovery -> Logging -> CORS -> rate limit
	var root http.Handler = mux
	if opts.GeneralLimiter != nil {
		root = opts.GeneralLimiter.Middleware(root)
	}
	root = middleware.CORS(opts.CORSOrigins)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
