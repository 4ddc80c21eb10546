package errorutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	plain := Wrap(errors.New("boom"))
	require.NotNil(t, plain)
	assert.False(t, plain.Retryable)
	assert.Equal(t, KindInternal, plain.Kind)
	assert.Equal(t, "boom", plain.Message)

	retry := Retriable("queue down")
	wrapped := fmt.Errorf("publish: %w", retry)
	assert.Same(t, retry, Wrap(wrapped))
}

func TestWrap_InterruptedAnalysisIsTransient(t *testing.T) {
	for _, cause := range []error{context.DeadlineExceeded, context.Canceled} {
		e := Wrap(fmt.Errorf("analyze plot 3: %w", cause))
		assert.Equal(t, KindTransient, e.Kind)
		assert.True(t, e.Retryable)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", RetriableWithDetails("a", "b"))))
	assert.False(t, IsRetryable(NonRetriable("bad input")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))

	var missing *Error
	assert.False(t, missing.IsRetryable())
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "bad input", NonRetriable("bad input").Error())
	assert.Equal(t, "publish failed: timeout", RetriableWithDetails("publish failed", "timeout").Error())
	assert.Equal(t, KindInvalidJob, NonRetriableWithDetails("x", "y").Kind)
}
