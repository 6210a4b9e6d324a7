package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/floral-shop/internal/service"
)

// MessageResponse — ответ без данных
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// statusFor сопоставляет ошибку бизнес-логики с HTTP-статусом.
// Для неизвестных ошибок текст не раскрывается.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidProduct):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateProduct),
		errors.Is(err, service.ErrCheckoutInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrPaymentService):
		return http.StatusBadGateway, service.ErrPaymentService.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	status, text := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.Any("error", err))
	} else {
		logger.Warn(msg, slog.Any("error", err))
	}
	http.Error(w, text, status)
}

// idParam извлекает положительный числовой параметр пути
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
