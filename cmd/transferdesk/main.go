package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"transferdesk/internal/cache"
	"transferdesk/internal/config"
	"transferdesk/internal/database"
	"transferdesk/internal/handler"
	"transferdesk/internal/model"
	"transferdesk/internal/mw"
	"transferdesk/internal/service"
	"transferdesk/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	var statsCache *cache.ViewCache[model.GlobalStats]
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(cfg.RedisAddr)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		statsCache = cache.NewViewCache[model.GlobalStats](rdb, 30*time.Second)
	}

	// Services
	userSvc := service.NewUserService(db)
	authSvc := service.NewAuthService(userSvc, cfg.JWTSecret)
	settingsSvc := service.NewSettingsService(db, cfg.RegistrationSecretDefault)
	regionSvc := service.NewRegionService(db)
	orderSvc := service.NewOrderService(db)
	analyticsSvc := service.NewAnalyticsService(db, statsCache)
	cleanupSvc := service.NewCleanupService(db)

	// Worker
	cleanupWorker := worker.NewCleanupWorker(cleanupSvc)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/auth/login", handler.LoginHandler(authSvc))
	r.Post("/api/auth/refresh", handler.RefreshHandler(authSvc))
	r.Post("/api/users/register", handler.RegisterHandler(userSvc, settingsSvc, authSvc))
	// Cleanup stays unauthenticated, as the original deployment had it.
	r.Post("/api/cleanup/orders", handler.CleanupOrdersHandler(cleanupSvc))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/api/auth/me", handler.MeHandler(userSvc))

		r.Get("/api/users", handler.ListUsersHandler(userSvc))
		r.Get("/api/users/{id}", handler.GetUserHandler(userSvc))
		r.Patch("/api/users/{id}", handler.UpdateUserHandler(userSvc))
		r.Delete("/api/users/{id}", handler.DeleteUserHandler(userSvc))

		r.Post("/api/regions", handler.CreateRegionHandler(regionSvc))
		r.Get("/api/regions", handler.ListRegionsHandler(regionSvc))
		r.Get("/api/regions/{id}", handler.GetRegionHandler(regionSvc))
		r.Put("/api/regions/{id}", handler.UpdateRegionHandler(regionSvc))
		r.Delete("/api/regions/{id}", handler.DeleteRegionHandler(regionSvc))

		r.Post("/api/orders", handler.CreateOrderHandler(orderSvc))
		r.Get("/api/orders", handler.ListOrdersHandler(orderSvc))
		r.Get("/api/orders/{id}", handler.GetOrderHandler(orderSvc))
		r.Put("/api/orders/{id}", handler.UpdateOrderHandler(orderSvc))
		r.Delete("/api/orders/{id}", handler.DeleteOrderHandler(orderSvc))

		r.Get("/api/analytics/global", handler.GlobalStatsHandler(analyticsSvc))
		r.Get("/api/analytics/regions", handler.RegionStatsHandler(analyticsSvc))

		r.Put("/api/settings/registration-secret", handler.UpdateRegistrationSecretHandler(settingsSvc))
	})

	// Best effort: the secret also seeds lazily on the first registration,
	// so a missing default is a warning here and a 500 there, not a dead app.
	if err := settingsSvc.EnsureRegistrationSecret(context.Background()); err != nil {
		slog.Warn("registration secret not seeded", "error", err)
	}

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go cleanupWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
