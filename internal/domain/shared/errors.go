package shared

import (
	"errors"
	"fmt"
)

// Error codes of the ledger error taxonomy
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeImbalanced = "IMBALANCED"
	CodeInternal   = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches every not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of the error carrying the given details
func (e *DomainError) WithDetails(details ...string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: append(append([]string(nil), e.Details...), details...),
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for malformed or missing input
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates an error for a missing or out-of-scope entity
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewConflictError creates an error for a state-machine or uniqueness violation
func NewConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf(format, args...))
}

// NewInternalError creates an error for unexpected failures
func NewInternalError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInternal, fmt.Sprintf(format, args...))
}

// CodeOf returns the domain error code carried by err, or CodeInternal
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}

// IsConflict reports whether err is a conflict domain error
func IsConflict(err error) bool {
	return err != nil && CodeOf(err) == CodeConflict
}

// IsValidation reports whether err is a validation or imbalance domain error
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	code := CodeOf(err)
	return code == CodeValidation || code == CodeImbalanced
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrImbalanced          = NewDomainError(CodeImbalanced, "Debits and credits do not balance")
	ErrConcurrencyConflict = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeConflict, "Operation not allowed in current state")
	ErrInternal            = NewDomainError(CodeInternal, "Internal error")
)
