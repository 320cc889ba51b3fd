package errors

import (
	"errors"
	"fmt"
	"io/fs"
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
			err:  NewTransformError("price column missing", nil),
			want: "[TRANSFORM] price column missing",
		},
		{
			name: "with cause",
			err:  NewSourceError("failed to open input", fs.ErrNotExist),
			want: "[SOURCE] failed to open input: file does not exist",
		},
		{
			name: "invalid state",
			err:  NewInvalidStateError("load", "extracted"),
			want: "[INVALID_STATE] cannot run load from state extracted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewPersistError("rename failed", fs.ErrPermission)

	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, fs.ErrPermission, errors.Unwrap(err))
}

func TestAppError_IsKind(t *testing.T) {
	wrapped := fmt.Errorf("load phase: %w", NewPersistError("write failed", nil))

	assert.True(t, errors.Is(wrapped, ErrPersist))
	assert.False(t, errors.Is(wrapped, ErrSource))
	assert.False(t, errors.Is(NewPersistError("a", nil), NewPersistError("b", nil)))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"direct", NewRateError("timeout", nil), ErrTypeRate},
		{"wrapped", fmt.Errorf("extract: %w", NewSourceError("missing", nil)), ErrTypeSource},
		{"config", NewConfigError("bad", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSourceError("malformed csv", nil).
		WithContext("path", "flights.csv").
		WithContext("line", 7)

	require.NotNil(t, err.Context)
	assert.Equal(t, "flights.csv", err.Context["path"])
	assert.Equal(t, 7, err.Context["line"])

	bare := &AppError{Type: ErrTypePersist}
	bare.WithContext("path", "out.csv")
	assert.Equal(t, "out.csv", bare.Context["path"])
}
