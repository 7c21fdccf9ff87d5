// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/alchemorsel/pantry/pkg/errors"
)

// decodeJSON reads a single JSON value from the request body into v. Bodies
// larger than maxBytes are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			return errors.NewBadRequestError("Request body too large").WithCause(err)
		case stderrors.Is(err, io.EOF):
			return errors.NewBadRequestError("Request body is empty")
		default:
			return errors.NewAppError(errors.CodeBadRequest, "Malformed JSON body", err.Error()).WithCause(err)
		}
	}
	return nil
}
