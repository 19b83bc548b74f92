package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles the admin back office requests.
type AdminHandler struct {
	users  service.UserService
	orders service.OrderService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users service.UserService, orders service.OrderService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		orders: orders,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// ListUsers handles GET /api/admin/users requests.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	items := make([]model.PublicUser, 0, len(users))
	for i := range users {
		items = append(items, users[i].Sanitize())
	}
	writeJSON(w, http.StatusOK, model.UserList{Items: items})
}

// UpdateUser handles PATCH /api/admin/users/{id} requests.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	user, err := h.users.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user.Sanitize()})
}

// DeleteUser handles DELETE /api/admin/users/{id} requests.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), currentUser(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// ListOrders handles GET /api/admin/orders requests.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderList{Items: orders})
}
