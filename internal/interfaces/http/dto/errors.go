package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the
// code they were created with.
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeAuthRequired     = "AUTH_REQUIRED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenRevoked     = "TOKEN_REVOKED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeItemConflict     = "ITEM_CONFLICT"
	ErrCodeExhausted        = "IDENTIFIER_EXHAUSTED"
	ErrCodeExportDisabled   = "EXPORT_UNAVAILABLE"
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeBodyTooLarge     = "BODY_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps exact error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	ErrCodeRenderFailed:   http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeAuthRequired:   http.StatusUnauthorized,
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,

	ErrCodeForbidden: http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeItemConflict:     http.StatusConflict,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	ErrCodeExhausted:      http.StatusServiceUnavailable,
	ErrCodeExportDisabled: http.StatusServiceUnavailable,
	ErrCodeRenderTimeout:  http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status for an error code. Codes not listed
// are classified by family: TOKEN_* 401, ACCOUNT_* 403, *_NOT_FOUND 404,
// INVALID_* 400; any other domain code is a rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == "":
		return http.StatusInternalServerError
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "ACCOUNT_"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
