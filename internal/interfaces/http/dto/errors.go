package dto

import (
	"net/http"
	"strings"
)

// Transport error codes, raised by the HTTP layer itself.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeValidation is used when request binding rules fail
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Domain error codes surfaced verbatim to clients
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUnknownVariant     = "UNKNOWN_VARIANT"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeInvalidQuantity    = "INVALID_QUANTITY"
	CodeMissingPrice       = "MISSING_PRICE"
	CodeUnsupportedVariant = "UNSUPPORTED_VARIANT"
	CodePasswordMismatch   = "PASSWORD_MISMATCH"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	CodeTokenRevoked       = "TOKEN_REVOKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeValidation:      http.StatusUnprocessableEntity,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Auth
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeTokenMaxRefresh:    http.StatusUnauthorized,
	CodeTokenRevoked:       http.StatusUnauthorized,

	// Resources
	CodeNotFound:        http.StatusNotFound,
	CodeProductNotFound: http.StatusNotFound,
	CodeAlreadyExists:   http.StatusConflict,

	// Client input
	CodeUnknownVariant:   http.StatusBadRequest,
	CodeInvalidQuantity:  http.StatusBadRequest,
	CodePasswordMismatch: http.StatusBadRequest,
	CodeInvalidInput:     http.StatusBadRequest,

	// Business rules
	CodeInvalidState: http.StatusUnprocessableEntity,

	// Data the server should never have stored or produced
	CodeMissingPrice:       http.StatusInternalServerError,
	CodeUnsupportedVariant: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Field-level domain codes (INVALID_NAME, INVALID_PRICE, ...) are validation
// failures. Anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "NOT_AN_") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// ValidationDetail describes one failed request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
