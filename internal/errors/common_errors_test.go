package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewNotFoundError("author", nil),
			want: "[NOT_FOUND] author not found",
		},
		{
			name: "with cause",
			err:  NewStorageError("failed to read dataset", io.ErrUnexpectedEOF),
			want: "[STORAGE] failed to read dataset: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("missing required columns")
	err := fmt.Errorf("load: %w", NewConfigError("dataset header invalid", sentinel))

	assert.True(t, errors.Is(err, sentinel))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeConfig, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).
		WithContext("row", 12).
		WithContext("column", "Data Sessão")

	assert.Equal(t, 12, err.Context["row"])
	assert.Equal(t, "Data Sessão", err.Context["column"])
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeValidation, Message: "bad"}
	err.WithContext("field", "start")

	assert.Equal(t, "start", err.Context["field"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"parsing", NewParsingError("m", cause), ErrTypeParsing},
		{"storage", NewStorageError("m", cause), ErrTypeStorage},
		{"validation", NewAppValidationError("m", cause), ErrTypeValidation},
		{"not found", NewNotFoundError("bill", cause), ErrTypeNotFound},
		{"config", NewConfigError("m", cause), ErrTypeConfig},
		{"unavailable", NewUnavailableError("m", cause), ErrTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Same(t, cause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
		})
	}
}
