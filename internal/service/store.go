package service

import (
	"context"
	"errors"
	"time"

	apperrors "wearhouse/internal/errors"
)

// defaultStoreTimeout bounds a single store round trip when the caller did
// not configure one.
const defaultStoreTimeout = 5 * time.Second

// boundedCtx derives a context with the store timeout so no operation
// blocks indefinitely. Caller disconnect cancels the parent and aborts the
// in-flight store call.
func boundedCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr translates a timed-out store call into the retryable
// unavailable error; anything else passes through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrStoreUnavailable
	}
	return err
}
