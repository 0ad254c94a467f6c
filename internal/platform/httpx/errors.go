package httpx

import (
	"errors"
	"net/http"

	"github.com/kasapos/kasapos/internal/shared"
)

// RespondError maps domain errors to HTTP status codes and renders the
// failure envelope. Unknown errors become a generic 500 so storage details
// never leak to clients.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrConflict),
		errors.Is(err, shared.ErrInsufficientStock):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrUnauthenticated),
		errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "internal server error")
	}
}
