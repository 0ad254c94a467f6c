package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kasapos/kasapos/internal/app"
	"github.com/kasapos/kasapos/internal/auth"
	"github.com/kasapos/kasapos/internal/masterdata/categories"
	"github.com/kasapos/kasapos/internal/masterdata/products"
	"github.com/kasapos/kasapos/internal/masterdata/suppliers"
	"github.com/kasapos/kasapos/internal/observability"
	"github.com/kasapos/kasapos/internal/platform/cache"
	"github.com/kasapos/kasapos/internal/platform/db"
	"github.com/kasapos/kasapos/internal/purchases"
	"github.com/kasapos/kasapos/internal/sales"
	"github.com/kasapos/kasapos/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenStore)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, cfg.IsProduction())

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	if cfg.SeedOwnerEmail != "" && cfg.SeedOwnerPassword != "" {
		if err := usersService.SeedOwner(ctx, cfg.SeedOwnerName, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword); err != nil {
			logger.Error("seed owner account", slog.Any("error", err))
			os.Exit(1)
		}
	}

	categoriesHandler := categories.NewHandler(logger, categories.NewService(categories.NewRepository(dbpool)))
	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(dbpool)))
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(dbpool)))

	purchasesHandler := purchases.NewHandler(logger, purchases.NewService(purchases.NewRepository(dbpool)))
	salesHandler := sales.NewHandler(logger, sales.NewService(logger, sales.NewRepository(dbpool), redisClient))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		CategoryHandler:  categoriesHandler,
		ProductHandler:   productsHandler,
		SupplierHandler:  suppliersHandler,
		PurchasesHandler: purchasesHandler,
		SalesHandler:     salesHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
