package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// sentinel errors below can be matched with errors.Is after wrapping
// or after constructing a new instance with a specific message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidQuantity        = "INVALID_QUANTITY"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeOverReceipt            = "OVER_RECEIPT"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeIllegalState           = "ILLEGAL_STATE"
	CodeDuplicateResource      = "DUPLICATE_RESOURCE"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
)

// IsNotFound reports whether err represents a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidQuantity        = NewDomainError(CodeInvalidQuantity, "Quantity is invalid")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrOverReceipt            = NewDomainError(CodeOverReceipt, "Received quantity exceeds ordered quantity")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Status transition not allowed")
	ErrIllegalState           = NewDomainError(CodeIllegalState, "Operation not allowed in current state")
	ErrDuplicateResource      = NewDomainError(CodeDuplicateResource, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)
