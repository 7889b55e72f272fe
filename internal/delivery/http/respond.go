package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mercadito/backend/internal/checkout"
	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the error taxonomy to HTTP statuses: validation
// → 400, not found → 404, conflicts and stock → 409, anything else → a
// generic retryable 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	var inputErr *service.InputError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &inputErr):
		respondError(w, http.StatusBadRequest, inputErr.Message)
	case errors.Is(err, entity.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, entity.ErrEmptyCart),
		errors.Is(err, entity.ErrInvalidRating),
		errors.Is(err, entity.ErrCommentTooLong),
		errors.Is(err, entity.ErrQuantityOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrDuplicateReview),
		errors.Is(err, entity.ErrDuplicateFavorite),
		errors.Is(err, entity.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrReviewNotEligible):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("Request failed", "err", err)
		respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
