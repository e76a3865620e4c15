package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/panathinaikos/storefront/internal/domain"
)

func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	WriteJSON(w, logger, status, map[string]string{"error": message})
}

// WriteDomainError maps the core error taxonomy onto HTTP statuses:
// not found / not owned -> 404, out-of-domain input -> 400,
// empty-cart checkout -> 409. Anything else is a 500 and gets logged.
func WriteDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *domain.ValidationError

	switch {
	case domain.IsNotFound(err):
		WriteError(w, logger, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrEmptyCart):
		WriteError(w, logger, http.StatusConflict, "cart is empty")
	case errors.As(err, &verr):
		WriteError(w, logger, http.StatusBadRequest, verr.Error())
	default:
		logger.Error("internal error", "error", err)
		WriteError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}
