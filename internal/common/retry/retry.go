// Package retry wraps calls to external backends with linear-backoff retries
// on transient network failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMaxRetries is returned when every attempt failed with a transient error.
var ErrMaxRetries = errors.New("max retries reached")

// transientIndicators are matched against the error text to decide whether an
// attempt is worth repeating. Anything else is rethrown immediately.
var transientIndicators = []string{
	"CORS",
	"Failed to fetch",
	"NetworkError",
	"connection refused",
	"connection reset",
	"timeout",
	"EOF",
	"fetch",
}

// IsTransient reports whether err looks like a transient network failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, indicator := range transientIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// Do invokes op up to maxRetries times. Transient failures wait
// baseDelay * attempt before the next try (linear backoff, no jitter).
// Non-transient failures are returned immediately. Idempotency is the
// caller's responsibility.
func Do(ctx context.Context, op func() error, maxRetries int, baseDelay time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if !IsTransient(lastErr) {
			return lastErr
		}

		if attempt < maxRetries {
			wait := baseDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("%w: %v", ErrMaxRetries, lastErr)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, op func() (T, error), maxRetries int, baseDelay time.Duration) (T, error) {
	var result T
	err := Do(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, maxRetries, baseDelay)
	return result, err
}
