package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linemk/floral-shop/internal/app"
	"github.com/linemk/floral-shop/internal/config"
	"github.com/linemk/floral-shop/internal/domain/models"
	"github.com/linemk/floral-shop/internal/lib/logger"
	"github.com/linemk/floral-shop/internal/service"
	"github.com/linemk/floral-shop/internal/storage"
)

// стартовые учётные записи
var seedUsers = []service.RegisterInput{
	{FirstName: "Admin", LastName: "Shop", Email: "admin@test.com", Password: "admin123", IsAdmin: true},
	{FirstName: "Anna", LastName: "Petrova", Email: "anna@test.com", Password: "password1"},
	{FirstName: "Ivan", LastName: "Sidorov", Email: "ivan@test.com", Password: "password2"},
}

var seedProducts = []models.Product{
	{Name: "Rose Bouquet", Price: 2999, Description: "Eleven red roses", ImageURL: "https://example.com/img/roses.jpg"},
	{Name: "Tulip Mix", Price: 1999, Description: "Spring tulips in assorted colors", ImageURL: "https://example.com/img/tulips.jpg"},
	{Name: "Sunflower Basket", Price: 3499, Description: "Sunflowers in a wicker basket", ImageURL: "https://example.com/img/sunflowers.jpg"},
}

func main() {
	cfg := config.MustLoad()
	log := logger.SetupLogger(cfg.Env)

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		return
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	sessions := storage.NewSessionRepository(application.Redis, cfg.Session.TTL)
	authService := service.NewAuthService(log, userRepo, sessions, cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTL)*time.Minute)

	for _, in := range seedUsers {
		_, err := authService.Register(ctx, in)
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			log.Info("user already exists", slog.String("email", in.Email))
		case err != nil:
			log.Error("failed to seed user", slog.String("email", in.Email), slog.Any("error", err))
			return
		default:
			log.Info("user seeded", slog.String("email", in.Email), slog.Bool("is_admin", in.IsAdmin))
		}
	}

	for i := range seedProducts {
		p := seedProducts[i]
		_, err := productRepo.CreateProduct(ctx, &p)
		switch {
		case errors.Is(err, storage.ErrProductExists):
			log.Info("product already exists", slog.String("name", p.Name))
		case err != nil:
			log.Error("failed to seed product", slog.String("name", p.Name), slog.Any("error", err))
			return
		default:
			log.Info("product seeded", slog.String("name", p.Name), slog.Int64("price", p.Price))
		}
	}

	log.Info("seeding finished")
}
