package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidTransition is used when a status change is denied by the workflow
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeCurrencyMismatch is used when an invoice currency does not match its group
	ErrCodeCurrencyMismatch = "ERR_CURRENCY_MISMATCH"
	// ErrCodeAlreadyGrouped is used when an invoice already belongs to another group
	ErrCodeAlreadyGrouped = "ERR_ALREADY_GROUPED"
	// ErrCodeEmptyBatch is used when a batch request carries no IDs
	ErrCodeEmptyBatch = "ERR_EMPTY_BATCH"
	// ErrCodeBatchTooLarge is used when a batch request exceeds the size limit
	ErrCodeBatchTooLarge = "ERR_BATCH_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusConflict,
	ErrCodeCurrencyMismatch:  http.StatusConflict,
	ErrCodeAlreadyGrouped:    http.StatusConflict,
	ErrCodeEmptyBatch:        http.StatusBadRequest,
	ErrCodeBatchTooLarge:     http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized wire codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_STATUS_TRANSITION": ErrCodeInvalidTransition,
	"CURRENCY_MISMATCH":         ErrCodeCurrencyMismatch,
	"ALREADY_GROUPED":           ErrCodeAlreadyGrouped,
	"EMPTY_BATCH":               ErrCodeEmptyBatch,
	"BATCH_TOO_LARGE":           ErrCodeBatchTooLarge,

	"ALREADY_ARCHIVED": ErrCodeInvalidState,
	"NOT_ARCHIVED":     ErrCodeInvalidState,
	"NOT_SALES_ORDER":  ErrCodeInvalidInput,

	"INVALID_INVOICE":        ErrCodeValidation,
	"INVALID_INVOICE_TYPE":   ErrCodeValidation,
	"INVALID_ITEM_TYPE":      ErrCodeValidation,
	"INVALID_AMOUNT":         ErrCodeValidation,
	"INVALID_CURRENCY":       ErrCodeValidation,
	"INVALID_PRICE":          ErrCodeValidation,
	"INVALID_MILESTONE":      ErrCodeValidation,
	"INVALID_PURCHASE_ORDER": ErrCodeValidation,
	"INVALID_UNITS":          ErrCodeValidation,
	"INVALID_RATE":           ErrCodeValidation,
	"INVALID_TOTAL_COST":     ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
