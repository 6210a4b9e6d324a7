package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/floral-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/floral-shop/internal/service"
)

// RegisterRequest — данные формы регистрации с тегами валидации
type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=100"`
	LastName        string `json:"last_name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest представляет структуру запроса для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse представляет структуру ответа с JWT-токеном
type AuthResponse struct {
	Token string `json:"token"`
}

var validate = validator.New()

// RegisterHandler обрабатывает POST /api/register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		user, err := authService.Register(r.Context(), service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			writeServiceError(w, logger, "registration failed", err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, user)
	}
}

// LoginHandler – HTTP-обработчик входа, возвращает JWT-токен
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		token, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, logger, "login failed", err)
			return
		}

		writeJSON(w, logger, http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler обрабатывает POST /api/logout
func LogoutHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LogoutHandler"
		logger := log.With(slog.String("op", op))

		sessionID, ok := jwtmiddleware.SessionFromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := authService.Logout(r.Context(), sessionID); err != nil {
			writeServiceError(w, logger, "logout failed", err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Message: "You have been logged out"})
	}
}
