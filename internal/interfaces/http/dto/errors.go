package dto

import (
	"net/http"

	"github.com/ims/backend/internal/domain/shared"
)

// Error codes owned by the HTTP layer. Domain error codes pass through
// unchanged; these cover failures before a request reaches the domain.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// HTTP layer errors
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	// Resource errors
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeDuplicateResource:   http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,

	// Input errors -> 400 Bad Request
	shared.CodeInvalidInput: http.StatusBadRequest,

	// Business rule errors -> 422 Unprocessable Entity
	shared.CodeInvalidQuantity:        http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:      http.StatusUnprocessableEntity,
	shared.CodeOverReceipt:            http.StatusUnprocessableEntity,
	shared.CodeInvalidStateTransition: http.StatusUnprocessableEntity,
	shared.CodeIllegalState:           http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
