package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeUnreadableFile   ErrorType = "UNREADABLE_FILE"
	ErrTypeMissingColumns   ErrorType = "MISSING_COLUMNS"
	ErrTypeNoInputData      ErrorType = "NO_INPUT_DATA"
	ErrTypeDateParse        ErrorType = "DATE_PARSE"
	ErrTypeInvalidMetric    ErrorType = "INVALID_METRIC"
	ErrTypeLookupMiss       ErrorType = "LOOKUP_MISS"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// Sentinels for errors.Is. Matching compares the error type only.
var (
	ErrUnreadableFile   = &AppError{Type: ErrTypeUnreadableFile}
	ErrMissingColumns   = &AppError{Type: ErrTypeMissingColumns}
	ErrNoInputData      = &AppError{Type: ErrTypeNoInputData}
	ErrDateParse        = &AppError{Type: ErrTypeDateParse}
	ErrInvalidMetric    = &AppError{Type: ErrTypeInvalidMetric}
	ErrLookupMiss       = &AppError{Type: ErrTypeLookupMiss}
	ErrInsufficientData = &AppError{Type: ErrTypeInsufficientData}
	ErrValidation       = &AppError{Type: ErrTypeValidation}
	ErrStorage          = &AppError{Type: ErrTypeStorage}
	ErrConfig           = &AppError{Type: ErrTypeConfig}
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

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
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

// TypeOf returns the type of the first AppError in the chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Helper functions for common error types

// NewUnreadableFileError reports that no encoding/delimiter combination parsed the file.
func NewUnreadableFileError(path string, cause error) *AppError {
	return NewAppError(ErrTypeUnreadableFile,
		fmt.Sprintf("could not read %s, check its encoding and delimiter", path), cause).
		WithContext("path", path)
}

// NewMissingColumnsError names the required headers absent from a file.
func NewMissingColumnsError(path string, missing []string) *AppError {
	names := make([]string, len(missing))
	copy(names, missing)
	return NewAppError(ErrTypeMissingColumns,
		fmt.Sprintf("%s is missing required columns: %s", path, strings.Join(names, ", ")), nil).
		WithContext("path", path).
		WithContext("missing", names)
}

// MissingColumns extracts the missing header list from a MissingColumns error.
func MissingColumns(err error) []string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Type != ErrTypeMissingColumns {
		return nil
	}
	names, _ := appErr.Context["missing"].([]string)
	return names
}

// NewNoInputDataError reports an empty or absent table.
func NewNoInputDataError(message string) *AppError {
	return NewAppError(ErrTypeNoInputData, message, nil)
}

// NewDateParseError reports a structurally absent date column.
func NewDateParseError(message string) *AppError {
	return NewAppError(ErrTypeDateParse, message, nil)
}

// NewInvalidMetricError reports an unsupported ranking selector.
func NewInvalidMetricError(metric string) *AppError {
	return NewAppError(ErrTypeInvalidMetric,
		fmt.Sprintf("unsupported metric %q, expected quantity or revenue", metric), nil).
		WithContext("metric", metric)
}

// NewLookupMissError reports an operation-kind tag that matches no known kind.
func NewLookupMissError(tag string) *AppError {
	return NewAppError(ErrTypeLookupMiss,
		fmt.Sprintf("operation kind %q is not a known tag", tag), nil).
		WithContext("tag", tag)
}

// NewInsufficientDataError reports that too few cleansed rows remain for analysis.
func NewInsufficientDataError(have, need int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("insufficient data for analysis: %d valid rows, need at least %d", have, need), nil).
		WithContext("rows", have).
		WithContext("min_rows", need)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
