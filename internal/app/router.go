package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kasapos/kasapos/internal/auth"
	"github.com/kasapos/kasapos/internal/masterdata/categories"
	"github.com/kasapos/kasapos/internal/masterdata/products"
	"github.com/kasapos/kasapos/internal/masterdata/suppliers"
	"github.com/kasapos/kasapos/internal/observability"
	"github.com/kasapos/kasapos/internal/purchases"
	"github.com/kasapos/kasapos/internal/sales"
	"github.com/kasapos/kasapos/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthMiddleware   auth.Middleware
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	CategoryHandler  *categories.Handler
	ProductHandler   *products.Handler
	SupplierHandler  *suppliers.Handler
	PurchasesHandler *purchases.Handler
	SalesHandler     *sales.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router serving the JSON API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(sub chi.Router) {
			params.AuthHandler.MountRoutes(sub, params.AuthMiddleware)
			params.UsersHandler.MountRoutes(sub, params.AuthMiddleware)
		})
		api.Route("/categories", func(sub chi.Router) {
			params.CategoryHandler.MountRoutes(sub, params.AuthMiddleware)
		})
		api.Route("/products", func(sub chi.Router) {
			params.ProductHandler.MountRoutes(sub, params.AuthMiddleware)
		})
		api.Route("/suppliers", func(sub chi.Router) {
			params.SupplierHandler.MountRoutes(sub, params.AuthMiddleware)
		})
		api.Route("/purchases", func(sub chi.Router) {
			params.PurchasesHandler.MountRoutes(sub, params.AuthMiddleware)
		})
		api.Route("/sales", func(sub chi.Router) {
			params.SalesHandler.MountRoutes(sub, params.AuthMiddleware)
		})
	})

	return r
}
