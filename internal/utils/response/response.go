// Package response provides the JSON envelopes every dev-server handler
// writes. Errors always carry an "error" member, which is what the
// console client reads out of a non-2xx response.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-portal/internal/storage"
)

// Response is the standard error envelope.
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// DataResponse wraps a payload in {"status":"ok","data":...}. Only the
// login endpoint uses it.
type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON serialises data as JSON with the given HTTP status.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK is the body of a successful write with nothing to return.
func OK() Response {
	return Response{Status: StatusOK}
}

// Data wraps v in the data envelope.
func Data(v any) DataResponse {
	return DataResponse{Status: StatusOK, Data: v}
}

// GeneralError wraps any error.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns validator failures into one readable message.
// A NewStudent with no email and no password becomes:
//
//	{
//	  "status": "error",
//	  "error":  "field Email is required, field Password is required"
//	}
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		case "gte", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be between 0 and 100", e.Field()))
		case "datetime":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a date formatted %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// StorageStatus picks the HTTP status for a storage error.
//
//	storage.ErrNotFound           → 404
//	storage.ErrConflict           → 409
//	storage.ErrInvalidCredentials → 401
//	anything else                 → 500
func StorageStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
