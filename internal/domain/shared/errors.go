package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context
const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeNoApplicableRate     = "NO_APPLICABLE_RATE"
	CodeInconsistentListData = "INCONSISTENT_LIST_DATA"
	CodeRoundingOverflow     = "ROUNDING_OVERFLOW"
	CodeInternal             = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies of a
// sentinel still match with errors.Is.
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

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation           = NewDomainError(CodeValidation, "Request validation failed")
	ErrPermissionDenied     = NewDomainError(CodePermissionDenied, "Price list is not accessible to this tenant")
	ErrNoApplicableRate     = NewDomainError(CodeNoApplicableRate, "No rate entry matches the shipment")
	ErrInconsistentListData = NewDomainError(CodeInconsistentListData, "Price list references missing data")
	ErrRoundingOverflow     = NewDomainError(CodeRoundingOverflow, "Computed amount is out of range")
)

// NewValidationError returns a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// CodeOf extracts the domain error code, or CodeInternal for foreign errors
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
