package errors

import (
	"fmt"
)

// CodecatError is the structured error type for codecat.
// It provides rich context for error handling, logging, and user presentation.
type CodecatError struct {
	// Code is the unique error code (e.g., "ERR_202_FILE_UNREADABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CodecatError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CodecatError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CodecatError.
func (e *CodecatError) Is(target error) bool {
	if t, ok := target.(*CodecatError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CodecatError) WithDetail(key, value string) *CodecatError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *CodecatError) WithSuggestion(suggestion string) *CodecatError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CodecatError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CodecatError {
	return &CodecatError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CodecatError from an existing error.
// The error's message becomes the CodecatError message.
func Wrap(code string, err error) *CodecatError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *CodecatError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *CodecatError {
	return New(ErrCodeFileUnreadable, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *CodecatError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *CodecatError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CodecatError); ok {
		return ce.Severity == SeverityFatal
	}
	return false
}

// IsWarning checks if an error has warning severity.
// Warnings mean the entry was skipped and the run continues.
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CodecatError); ok {
		return ce.Severity == SeverityWarning
	}
	return false
}

// GetCode extracts the error code from a CodecatError.
// Returns empty string if not a CodecatError.
func GetCode(err error) string {
	if ce, ok := err.(*CodecatError); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CodecatError.
// Returns empty string if not a CodecatError.
func GetCategory(err error) Category {
	if ce, ok := err.(*CodecatError); ok {
		return ce.Category
	}
	return ""
}
