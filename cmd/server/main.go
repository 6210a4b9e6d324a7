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
	"github.com/linemk/floral-shop/internal/app"
	"github.com/linemk/floral-shop/internal/app/handlers"
	"github.com/linemk/floral-shop/internal/config"
	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/lib/logger"
	"github.com/linemk/floral-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/floral-shop/internal/payment"
	"github.com/linemk/floral-shop/internal/service"
	"github.com/linemk/floral-shop/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// подключения к postgres и redis
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// слои по работе с хранилищами
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	sessions := storage.NewSessionRepository(application.Redis, cfg.Session.TTL)

	gateway := payment.NewStripeGateway(log, cfg.Payment.SecretKey, cfg.Payment.Timeout)

	authService := service.NewAuthService(log, userRepo, sessions, cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(log, productRepo)
	cartService := service.NewCartService(log, productRepo, sessions)
	orderService := service.NewOrderService(log, orderRepo)
	adminService := service.NewAdminService(log, userRepo, productRepo, orderRepo)
	checkoutService := service.NewCheckoutService(log, application.DB, orderRepo, sessions, gateway, service.CheckoutConfig{
		Currency:       cfg.Payment.Currency,
		SuccessURL:     cfg.Payment.SuccessURL,
		CancelURL:      cfg.Payment.CancelURL,
		PaymentTimeout: cfg.Payment.Timeout,
		LockTTL:        cfg.Checkout.LockTTL,
	})

	// публичные эндпоинты: учётная запись и каталог
	router.Post("/api/register", handlers.RegisterHandler(log, authService))
	router.Post("/api/login", handlers.LoginHandler(log, authService))
	router.Get("/api/products", handlers.ListProductsHandler(log, catalogService))
	router.Get("/api/products/{id}", handlers.GetProductHandler(log, catalogService))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(cfg.JWT.Secret))

		r.Post("/api/logout", handlers.LogoutHandler(log, authService))

		r.Get("/api/cart", handlers.GetCartHandler(log, cartService))
		r.Post("/api/cart/items", handlers.AddToCartHandler(log, cartService))
		r.Delete("/api/cart", handlers.EmptyCartHandler(log, cartService))

		r.Post("/api/checkout", handlers.CheckoutHandler(log, checkoutService))
		// адреса возврата из сервиса оплаты
		r.Get("/api/checkout/success", handlers.PaymentSuccessHandler(log, checkoutService))
		r.Get("/api/checkout/cancel", handlers.PaymentCancelHandler(log, checkoutService))

		r.Get("/api/orders", handlers.ListOrdersHandler(log, orderService))
		r.Get("/api/orders/{id}", handlers.OrderDetailsHandler(log, orderService))

		// права администратора проверяет AdminService
		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/products", handlers.AdminListProductsHandler(log, adminService))
			r.Post("/products", handlers.AdminCreateProductHandler(log, adminService))
			r.Put("/products/{id}", handlers.AdminUpdateProductHandler(log, adminService))
			r.Get("/orders", handlers.AdminListOrdersHandler(log, adminService))
			r.Post("/orders/{id}/complete", handlers.AdminCompleteOrderHandler(log, adminService))
			r.Post("/orders/{id}/cancel", handlers.AdminCancelOrderHandler(log, adminService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Payment.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
