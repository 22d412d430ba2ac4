package errors

import (
	"errors"
	"fmt"
)

// Standard error types
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrIO           = errors.New("io failure")
	ErrSchema       = errors.New("schema error")
	ErrValidation   = errors.New("validation error")
	ErrInternal     = errors.New("internal error")
)

// AppError represents an application error with context
type AppError struct {
	Err     error             `json:"-"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string) *AppError {
	return &AppError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Duplicate(message string) *AppError {
	return &AppError{
		Err:     ErrDuplicateKey,
		Code:    "DUPLICATE_KEY",
		Message: message,
	}
}

func IO(message string, err error) *AppError {
	wrapped := error(ErrIO)
	if err != nil {
		wrapped = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &AppError{
		Err:     wrapped,
		Code:    "IO_ERROR",
		Message: message,
	}
}

func Schema(message string, err error) *AppError {
	wrapped := error(ErrSchema)
	if err != nil {
		wrapped = fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return &AppError{
		Err:     wrapped,
		Code:    "SCHEMA_ERROR",
		Message: message,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Details: details,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
