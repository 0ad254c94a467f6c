package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kasapos/kasapos/internal/platform/httpx"
	"github.com/kasapos/kasapos/internal/shared"
)

// Middleware guards routes behind token authentication and role checks.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate resolves the bearer credential from the Authorization header
// or cookie and stores the identity in the request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Fail(w, http.StatusUnauthorized, "access token missing")
			return
		}
		identity, err := m.Service.Resolve(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers whose role is not in the allowed set.
func (m Middleware) RequireRole(roles ...shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.Fail(w, http.StatusUnauthorized, "access token missing")
				return
			}
			if !identity.Allowed(roles...) {
				if m.Logger != nil {
					m.Logger.Warn("role denied",
						slog.String("path", r.URL.Path),
						slog.String("role", string(identity.Role)))
				}
				httpx.Fail(w, http.StatusForbidden, "insufficient rights")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
