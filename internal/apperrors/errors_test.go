package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredErrorMessage(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] meal 999 not found", New(ErrCodeNotFound, "meal 999 not found").Error())

	wrapped := Wrap(ErrCodeUpstream, "lookup failed", errors.New("connection refused"))
	assert.Equal(t, "[UPSTREAM_UNAVAILABLE] lookup failed: connection refused", wrapped.Error())
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeCanceled, "random meal", context.Canceled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", New(ErrCodeUpstream, "down"), ErrCodeUpstream},
		{"wrapped with fmt", fmt.Errorf("handler: %w", New(ErrCodeNotFound, "gone")), ErrCodeNotFound},
		{"plain error", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeNotFound, "x")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.True(t, IsCanceled(Wrap(ErrCodeCanceled, "x", context.DeadlineExceeded)))
	assert.False(t, IsCanceled(New(ErrCodeInternal, "x")))
}
