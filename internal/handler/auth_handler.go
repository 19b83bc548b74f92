package handler

import (
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CookieOptions controls the session cookie written on register and login.
type CookieOptions struct {
	Enabled bool
	Secure  bool
	TTL     time.Duration
}

// AuthHandler handles account and session HTTP requests.
type AuthHandler struct {
	service service.AuthService
	cookie  CookieOptions
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, cookie CookieOptions, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// userResponse is the body of GET /api/auth/me.
type userResponse struct {
	User model.PublicUser `json:"user"`
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.setSession(w, resp.Token)
	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.setSession(w, resp.Token)
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeServiceError(w, model.ErrAuthRequired, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user.Sanitize()})
}

// Logout handles POST /api/auth/logout requests. Tokens are stateless, so
// only the cookie is cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cookie.Enabled {
		http.SetCookie(w, auth.ExpiredSessionCookie(h.cookie.Secure))
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string) {
	if h.cookie.Enabled {
		http.SetCookie(w, auth.SessionCookie(token, h.cookie.TTL, h.cookie.Secure))
	}
}
