package dto

import (
	"net/http"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
)

// Domain error codes surfaced unchanged to clients
const (
	ErrCodeValidation           = shared.CodeValidation
	ErrCodePermissionDenied     = shared.CodePermissionDenied
	ErrCodeNotFound             = shared.CodeNotFound
	ErrCodeNoApplicableRate     = shared.CodeNoApplicableRate
	ErrCodeInconsistentListData = shared.CodeInconsistentListData
	ErrCodeRoundingOverflow     = shared.CodeRoundingOverflow
	ErrCodeInternal             = shared.CodeInternal
)

// Transport-level error codes
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeInvalidJSON:          http.StatusBadRequest,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodePermissionDenied:     http.StatusForbidden,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeInconsistentListData: http.StatusConflict,
	ErrCodeRequestTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeNoApplicableRate:     http.StatusUnprocessableEntity,
	ErrCodeRoundingOverflow:     http.StatusInternalServerError,
	ErrCodeInternal:             http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
