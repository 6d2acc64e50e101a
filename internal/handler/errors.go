package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsroomCMS/internal/errs"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse - ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteServiceError сопоставляет категорию ошибки с HTTP-статусом.
// Неожиданные ошибки уходят клиенту без деталей, подробности остаются
// в серверном логе.
func (h *Handlers) WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrForeignKey):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errs.ErrDuplicate):
		WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errs.ErrForbidden):
		WriteError(w, err.Error(), http.StatusForbidden)
	default:
		h.Logger.Error().Err(err).Msg("необработанная ошибка запроса")
		WriteError(w, "Internal server error", http.StatusInternalServerError)
	}
}
