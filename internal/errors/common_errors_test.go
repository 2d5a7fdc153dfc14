package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError("top_n must be at least 1"),
			expected: "[VALIDATION] top_n must be at least 1",
		},
		{
			name:     "with cause",
			err:      NewStorageError("write report", fmt.Errorf("disk full")),
			expected: "[STORAGE] write report: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_IsMatchesType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unreadable file", NewUnreadableFileError("a.csv", os.ErrNotExist), ErrUnreadableFile},
		{"missing columns", NewMissingColumnsError("a.csv", []string{"Дата"}), ErrMissingColumns},
		{"no input data", NewNoInputDataError("empty"), ErrNoInputData},
		{"date parse", NewDateParseError("no date column"), ErrDateParse},
		{"invalid metric", NewInvalidMetricError("margin"), ErrInvalidMetric},
		{"lookup miss", NewLookupMissError("refund"), ErrLookupMiss},
		{"insufficient data", NewInsufficientDataError(3, 10), ErrInsufficientData},
		{"config", NewConfigError("bad", nil), ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("stage failed: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.False(t, errors.Is(wrapped, ErrStorage))
		})
	}
}

func TestAppError_UnwrapKeepsCause(t *testing.T) {
	err := NewUnreadableFileError("data.csv", os.ErrPermission)

	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Equal(t, "data.csv", err.Context["path"])
}

func TestMissingColumns(t *testing.T) {
	err := fmt.Errorf("load: %w", NewMissingColumnsError("data.csv", []string{"Артикул", "Дата"}))

	assert.Equal(t, []string{"Артикул", "Дата"}, MissingColumns(err))
	assert.Contains(t, err.Error(), "Артикул, Дата")
	assert.Nil(t, MissingColumns(NewNoInputDataError("empty")))
	assert.Nil(t, MissingColumns(errors.New("plain")))
}

func TestTypeOf(t *testing.T) {
	require.Equal(t, ErrTypeInsufficientData, TypeOf(fmt.Errorf("x: %w", NewInsufficientDataError(1, 10))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestWithContext_InitializesMap(t *testing.T) {
	err := &AppError{Type: ErrTypeValidation, Message: "bad"}
	err.WithContext("field", "top_n")

	assert.Equal(t, "top_n", err.Context["field"])
}
