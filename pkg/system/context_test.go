package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunWithContext(t *testing.T) {
	t.Run("returns the operation result", func(t *testing.T) {
		want := errors.New("boom")
		assert.ErrorIs(t, RunWithContext(context.Background(), func(context.Context) error { return want }), want)
		assert.NoError(t, RunWithContext(context.Background(), func(context.Context) error { return nil }))
	})

	t.Run("already cancelled context skips the operation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := RunWithContext(ctx, func(context.Context) error { called = true; return nil })
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("cancellation reaches the operation and is awaited", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		finished := false
		err := RunWithContext(ctx, func(opCtx context.Context) error {
			<-opCtx.Done()
			finished = true
			return opCtx.Err()
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, finished)
	})

	t.Run("operation that ignores cancellation reports parent error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		err := RunWithContext(ctx, func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
