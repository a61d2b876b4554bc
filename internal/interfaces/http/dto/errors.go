package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes and are
// mapped through ErrorCodeHTTPStatus below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain error
// codes not listed here default to 400: the request was well-formed but
// named something the domain rejected.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"SLUG_TAKEN":     http.StatusConflict,

	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_STATE": http.StatusUnprocessableEntity,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"TENANT_SUSPENDED":    http.StatusForbidden,
	"FORBIDDEN":           http.StatusForbidden,

	// Rain-shift contract: misconfiguration and no-op undo are client errors
	"ZIP_NOT_SET":     http.StatusBadRequest,
	"GEOCODE_FAILED":  http.StatusBadRequest,
	"NOTHING_TO_UNDO": http.StatusBadRequest,
	"INVALID_SHIFT":   http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
