package system

import (
	"context"
)

// RunWithContext runs operation on its own goroutine with a context that is
// cancelled when ctx is done. It always waits for operation to return, so
// an interrupted operation can release what it holds before the caller moves on.
//
// Returns:
//   - ctx.Err() if ctx is already done before the operation starts.
//   - the operation's result otherwise, including when it stopped early
//     because its context was cancelled.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so the goroutine can always deliver its result and exit.
	done := make(chan error, 1)

	go func() {
		done <- operation(opCtx)
		close(done)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		if err := <-done; err != nil {
			return err
		}
		return ctx.Err()
	}
}
