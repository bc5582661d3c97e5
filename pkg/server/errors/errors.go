// Package errors maps engine failures onto the error taxonomy exposed to API
// consumers.
package errors

import (
	"errors"
	"net/http"

	"github.com/ownerchain/ownerchain/pkg/storage"
)

var (
	// ErrInvalidBrandID is returned for a missing or non-positive brand
	// identifier.
	ErrInvalidBrandID = errors.New("invalid brand identifier")

	// ErrInvalidMaxDepth is returned for a max-depth override that is not a
	// non-negative integer.
	ErrInvalidMaxDepth = errors.New("invalid max depth")

	// ErrBrandNotFound is returned when the requested brand does not exist.
	ErrBrandNotFound = errors.New("brand not found")
)

// HTTPStatusCode maps a chain service error to its HTTP status.
func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidBrandID), errors.Is(err, ErrInvalidMaxDepth):
		return http.StatusBadRequest
	case errors.Is(err, ErrBrandNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds the error body for an error. Internal error detail
// is suppressed unless debug mode is on.
func NewErrorResponse(err error, debug bool) ErrorResponse {
	switch HTTPStatusCode(err) {
	case http.StatusBadRequest:
		return ErrorResponse{Code: "validation_error", Message: err.Error()}
	case http.StatusNotFound:
		return ErrorResponse{Code: "not_found", Message: err.Error()}
	default:
		resp := ErrorResponse{Code: "internal_error", Message: "internal server error"}
		if debug {
			resp.Message = err.Error()
		}
		return resp
	}
}
