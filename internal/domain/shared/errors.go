package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a parametrised error
// such as a not-found echoing its id still matches the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
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

// NewDomainErrorf creates a domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return NewDomainError(code, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrForbidden     = NewDomainError("FORBIDDEN", "You do not have permission to perform this action")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Marketplace errors
var (
	ErrUnknownVariant     = NewDomainError("UNKNOWN_VARIANT", "Unknown product type")
	ErrProductNotFound    = NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrInvalidQuantity    = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrMissingPrice       = NewDomainError("MISSING_PRICE", "Product has no price set")
	ErrUnsupportedVariant = NewDomainError("UNSUPPORTED_VARIANT", "Unsupported product type")
)
