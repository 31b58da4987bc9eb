// Package retry runs fallible operations with bounded attempts and
// exponential backoff between them.
//
// The executor is generic over the operation's result type, so any
// call shaped as func(ctx) (T, error) can be wrapped without
// adapters. Backoff waits are cancellable: a context cancellation
// during a wait unwinds immediately instead of finishing the
// schedule.
package retry

import (
	"context"
	"math"
	"time"
)

// Func is a fallible operation executed under a retry policy.
type Func[T any] func(ctx context.Context) (T, error)

// Policy controls how many times an operation is attempted and how
// long to wait between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the
	// first. Values below 1 are treated as 1.
	MaxAttempts int

	// BaseDelay is the wait before the first retry. Each further
	// retry doubles the wait: BaseDelay, 2*BaseDelay, 4*BaseDelay...
	BaseDelay time.Duration

	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration

	// RetryIf classifies errors: returning false stops the retry loop
	// immediately and surfaces that error. A nil classifier retries
	// every error.
	RetryIf func(err error) bool
}

// DefaultPolicy returns the pipeline's standard policy: 3 attempts
// with a 2 second base delay, so a continuously failing operation
// waits 2s and then 4s before giving up.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// Delay reports the backoff wait before the retry with the given
// zero-based index: BaseDelay * 2^attempt, capped at MaxDelay when a
// cap is configured.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 || p.BaseDelay <= 0 {
		return 0
	}
	if attempt > 62 {
		attempt = 62 // past any practical schedule, avoids overflow
	}

	d := time.Duration(float64(p.BaseDelay) * math.Pow(2, float64(attempt)))
	if d <= 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		if p.MaxDelay > 0 {
			return p.MaxDelay
		}
		return math.MaxInt64
	}
	return d
}

// sleep waits between attempts. Tests substitute it to assert the
// backoff schedule without real clock time.
var sleep = sleepContext

// sleepContext blocks for d or until ctx is cancelled, whichever
// comes first, returning the context's error on cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn until it succeeds, a non-retryable error occurs, the
// attempt budget is exhausted, or ctx is cancelled.
//
// On exhaustion the last error is returned unchanged, so callers see
// the same failure shape the operation itself produced. Cancellation
// surfaces as the context's error, whether it interrupts a backoff
// wait or arrives between attempts.
func Do[T any](ctx context.Context, p Policy, fn Func[T]) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			if err := sleep(ctx, p.Delay(attempt-1)); err != nil {
				return zero, err
			}
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.RetryIf != nil && !p.RetryIf(err) {
			return zero, err
		}
	}

	return zero, lastErr
}
