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

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is the base code for request validation errors
	ErrCodeValidation = "ERR_VALIDATION"
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
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeAmountExceedsBalance is used when a payment exceeds the outstanding balance
	ErrCodeAmountExceedsBalance = "ERR_AMOUNT_EXCEEDS_BALANCE"
	// ErrCodeNothingToAllocate is used when a receipt finds no open sale to fund
	ErrCodeNothingToAllocate = "ERR_NOTHING_TO_ALLOCATE"
	// ErrCodeRecordsAttached is used when deletion is blocked by dependent records
	ErrCodeRecordsAttached = "ERR_RECORDS_ATTACHED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeRecordsAttached:     http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:         http.StatusUnprocessableEntity,
	ErrCodeAmountExceedsBalance: http.StatusUnprocessableEntity,
	ErrCodeNothingToAllocate:    http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized API
// codes. Codes not listed here fall through NormalizeErrorCode unchanged
// and default to 500, which is what an unclassified error deserves.
var DomainErrorCodeMapping = map[string]string{
	// lookups
	"NOT_FOUND":          ErrCodeNotFound,
	"CUSTOMER_NOT_FOUND": ErrCodeNotFound,
	"CONTACT_NOT_FOUND":  ErrCodeNotFound,
	"BUYER_NOT_FOUND":    ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":  ErrCodeNotFound,
	"SALE_NOT_FOUND":     ErrCodeNotFound,
	"PAYMENT_NOT_FOUND":  ErrCodeNotFound,

	// uniqueness
	"ALREADY_EXISTS":  ErrCodeAlreadyExists,
	"CUSTOMER_EXISTS": ErrCodeAlreadyExists,
	"SKU_EXISTS":      ErrCodeAlreadyExists,

	// conflicts
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"CUSTOMER_HAS_RECORDS":  ErrCodeRecordsAttached,
	"PRODUCT_IN_USE":        ErrCodeRecordsAttached,
	"SALE_NUMBER_EXHAUSTED": ErrCodeConflict,

	// state
	"INVALID_STATE":     ErrCodeInvalidState,
	"CUSTOMER_INACTIVE": ErrCodeInvalidState,
	"PRODUCT_INACTIVE":  ErrCodeInvalidState,

	// ledger rules
	"AMOUNT_EXCEEDS_OUTSTANDING": ErrCodeAmountExceedsBalance,
	"NOTHING_TO_ALLOCATE":        ErrCodeNothingToAllocate,
	"ALLOCATION_OVERFLOW":        ErrCodeBusinessRule,

	// input
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_AMOUNT":        ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_CONTACT_INFO":  ErrCodeInvalidInput,
	"INVALID_CUSTOMER_TYPE": ErrCodeInvalidInput,
	"INVALID_CUSTOMER":      ErrCodeInvalidInput,
	"INVALID_BUYER":         ErrCodeInvalidInput,
	"INVALID_SALE_NO":       ErrCodeInvalidInput,
	"INVALID_SALE":          ErrCodeInvalidInput,
	"INVALID_PRODUCT":       ErrCodeInvalidInput,
	"INVALID_PRICE":         ErrCodeInvalidInput,
	"INVALID_QUANTITY":      ErrCodeInvalidInput,
	"INVALID_ALLOCATION":    ErrCodeInvalidInput,
	"INVALID_PAY_TYPE":      ErrCodeInvalidInput,
	"INVALID_METHOD":        ErrCodeInvalidInput,
	"INVALID_SORT":          ErrCodeInvalidInput,
	"UNSUPPORTED_MODE":      ErrCodeInvalidInput,
	"EMPTY_SALE":            ErrCodeInvalidInput,
	"EMPTY_SELECTION":       ErrCodeInvalidInput,
	"BUYER_REQUIRED":        ErrCodeInvalidInput,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. If the code is already in the new format or unknown, returns
// it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
