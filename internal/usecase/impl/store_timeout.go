// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "gadgetry/internal/delivery/context"
	domainerrors "gadgetry/internal/domain/errors"

	"github.com/pkg/errors"
)

// runWithStoreTimeout runs one store operation under its own deadline, so a
// stalled database cannot hold a request open indefinitely.
func runWithStoreTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fn(opCtx)
}

// readWithRetry runs a store read, retrying exactly once when the read hits
// its own deadline. A second timeout surfaces as ErrStoreTimeout. If the
// parent context is already done, the failure came from the caller and is
// never retried.
func readWithRetry(ctx context.Context, logger *slog.Logger, timeout time.Duration, operation string, fn func(ctx context.Context) error) error {
	err := runWithStoreTimeout(ctx, timeout, fn)
	if !isStoreTimeout(ctx, err) {
		return err
	}

	deliverycontext.GetLoggerOrDefault(ctx, logger).WarnContext(ctx, "Store read timed out, retrying once",
		slog.String("operation", operation),
		slog.Duration("timeout", timeout),
	)

	err = runWithStoreTimeout(ctx, timeout, fn)
	if isStoreTimeout(ctx, err) {
		return domainerrors.ErrStoreTimeout.WrapMessage(operation)
	}

	return err
}

// writeWithTimeout runs a store write under a deadline. Writes are never
// retried: a timed-out write may or may not have landed, and replaying it
// blindly could double-apply.
func writeWithTimeout(ctx context.Context, timeout time.Duration, operation string, fn func(ctx context.Context) error) error {
	err := runWithStoreTimeout(ctx, timeout, fn)
	if isStoreTimeout(ctx, err) {
		return domainerrors.ErrStoreTimeout.WrapMessage(operation)
	}

	return err
}

func isStoreTimeout(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	// The parent being done means the caller gave up, not the store.
	if ctx.Err() != nil {
		return false
	}

	return errors.Is(err, context.DeadlineExceeded)
}
