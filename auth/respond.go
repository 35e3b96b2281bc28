package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/logging"
)

// maxJSONBodyBytes caps JSON request bodies. Image uploads are multipart and
// have their own limit.
const maxJSONBodyBytes = 1 << 20

// WriteJSON serializes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all we can do is log.
		logging.Errorf("failed to encode response: %v", err)
	}
}

// WriteError writes err as `{"error": "..."}` with the status of its AppError.
// Errors that are not AppErrors become an opaque 500. The cause of any 5xx is
// logged and never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logging.Errorf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, appErr)
	} else {
		logging.Debugf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, appErr)
	}

	WriteJSON(w, status, appErr.ToResponse())
}

// DecodeJSON reads a JSON body into dst. Malformed or oversized bodies come
// back as ValidationErrors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.NewValidationError("request body is empty", err)
		case errors.As(err, &maxErr):
			return apperror.NewValidationError("request body is too large", err)
		default:
			return apperror.NewValidationError("invalid request body: "+err.Error(), err)
		}
	}
	return nil
}
