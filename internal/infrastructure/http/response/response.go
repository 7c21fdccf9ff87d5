// Package response writes JSON bodies and AppError envelopes
package response

import (
	"encoding/json"
	"net/http"

	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/go-chi/chi/v5/middleware"
)

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is already sent; an encode failure can only be dropped
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an ErrorResponse. Errors that are not AppErrors are
// reported as internal errors without exposing their text.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "")
	JSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())))
}
