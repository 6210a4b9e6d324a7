package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/linemk/floral-shop/internal/domain/models"
	security "github.com/linemk/floral-shop/internal/jwt-new"
	"github.com/linemk/floral-shop/internal/storage"
)

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	sessions storage.SessionStorage
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, sessions storage.SessionStorage, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

// RegisterInput — данные для создания учётной записи
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// Register создаёт пользователя. Пароль хэшируется через bcrypt, который автоматически добавляет соль.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", in.Email),
	)
	logger.Info("registering user")

	_, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	if err == nil {
		logger.Warn("email already registered")
		return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		PassHash:  passHash,
		IsAdmin:   in.IsAdmin,
	})
	if err != nil {
		// гонка двух регистраций: уникальный индекс в БД
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already registered")
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, nil
}

// Login проверяет пароль и выдаёт JWT-токен с новым идентификатором сессии.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(user, uuid.NewString(), a.secret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}

// Logout удаляет корзину и ожидающий заказ сессии.
func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	const op = "service.AuthService.Logout"
	logger := a.log.With(slog.String("op", op), slog.String("sessionID", sessionID))

	if err := a.sessions.DeleteSession(ctx, sessionID); err != nil {
		logger.Error("failed to delete session", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("user logged out")
	return nil
}
