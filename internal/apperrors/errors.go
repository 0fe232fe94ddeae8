package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPolicyViolation indicates an operation that is well formed but not permitted,
// e.g. reversing a sales-derived stock log entry.
var ErrPolicyViolation = errors.New("policy violation")

// ErrInsufficientStock indicates an adjustment would drive stock below zero
// without explicit authorization.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrUpstreamUnavailable indicates the persistence collaborator was unreachable
// or returned malformed data.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrInternal is returned when an unexpected failure should not leak details to callers.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP status alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BatchError reports the first entry of a batch that failed validation.
// The whole batch was rolled back.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch entry %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Upstream wraps a collaborator failure so it matches ErrUpstreamUnavailable.
func Upstream(op string, err error) error {
	if errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, op, err)
}
