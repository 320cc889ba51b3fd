// Package errors defines the discriminated error kinds that cross pipeline
// phase boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeSource covers a missing or malformed input and remote loader failures
	ErrTypeSource ErrorType = "SOURCE"
	// ErrTypeRate covers exchange rate lookups. Never fatal: the resolver falls back.
	ErrTypeRate ErrorType = "RATE"
	// ErrTypeTransform covers missing required fields and unparseable values
	ErrTypeTransform ErrorType = "TRANSFORM"
	// ErrTypePersist covers output writes, reordering and the summary report
	ErrTypePersist ErrorType = "PERSIST"
	// ErrTypeConfig covers configuration loading and validation
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeInvalidState is returned when a phase runs out of order
	ErrTypeInvalidState ErrorType = "INVALID_STATE"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type with no message,
// so sentinel kinds such as ErrSource match any error of that kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Cause == nil
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is matching by kind
var (
	ErrSource       = &AppError{Type: ErrTypeSource}
	ErrRate         = &AppError{Type: ErrTypeRate}
	ErrTransform    = &AppError{Type: ErrTypeTransform}
	ErrPersist      = &AppError{Type: ErrTypePersist}
	ErrConfig       = &AppError{Type: ErrTypeConfig}
	ErrInvalidState = &AppError{Type: ErrTypeInvalidState}
)

// NewSourceError creates an extraction error
func NewSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSource, message, cause)
}

// NewRateError creates an exchange rate lookup error
func NewRateError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRate, message, cause)
}

// NewTransformError creates a transformation error
func NewTransformError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTransform, message, cause)
}

// NewPersistError creates a load/persistence error
func NewPersistError(message string, cause error) *AppError {
	return NewAppError(ErrTypePersist, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewInvalidStateError creates an error for a phase invoked in the wrong state
func NewInvalidStateError(phase, state string) *AppError {
	return NewAppError(ErrTypeInvalidState, fmt.Sprintf("cannot run %s from state %s", phase, state), nil).
		WithContext("phase", phase).
		WithContext("state", state)
}

// KindOf returns the ErrorType of the first AppError in err's chain, or ""
func KindOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
