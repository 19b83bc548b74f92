package middleware

import (
	"context"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Authenticator resolves a session token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Authenticate requires a valid session token in the Authorization header or
// the session cookie and attaches the user to the request context.
func Authenticate(authenticator Authenticator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r.Context(), auth.ExtractToken(r))
			if err != nil {
				if !writeDomainError(w, err) {
					logger.Error().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			recordUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireRole rejects users without role. It must run after Authenticate.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				writeDomainError(w, model.ErrAuthRequired)
				return
			}
			if user.Role != role {
				writeDomainError(w, model.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ForbidRole rejects users holding role with err. It must run after
// Authenticate.
func ForbidRole(role model.Role, err *model.DomainError) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				writeDomainError(w, model.ErrAuthRequired)
				return
			}
			if user.Role == role {
				writeDomainError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
