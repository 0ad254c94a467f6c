package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kasapos/kasapos/internal/platform/httpx"
	"github.com/kasapos/kasapos/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	secure    bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, secureCookies bool) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		secure:    secureCookies,
	}
}

// MountRoutes registers the session routes; mw guards the authenticated ones.
func (h *Handler) MountRoutes(r chi.Router, mw Middleware) {
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.service.tokens.TTL()),
	})
	httpx.Success(w, http.StatusOK, "login successful", map[string]any{
		"token": token,
		"user":  identity,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Warn("revoke token", slog.Any("error", err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.Success(w, http.StatusOK, "logout successful", nil)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Fail(w, http.StatusUnauthorized, "access token missing")
		return
	}
	httpx.Success(w, http.StatusOK, "session retrieved successfully", identity)
}
