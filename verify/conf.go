package verify

import (
	"log/slog"

	"golang.org/x/time/rate"

	"phoneverify/retry"
)

// ProgressFunc observes batch progress. It is called once after each
// task completes, in completion order, with the number of completed
// tasks so far and the batch total. Calls are serialized.
type ProgressFunc func(completed, total int)

// RunnerOption is a functional option for configuring the Runner.
type RunnerOption func(*Runner)

// WithRetryPolicy sets the retry policy applied to every validation
// task. If not specified, retry.DefaultPolicy() is used: 3 attempts
// with a 2 second base delay.
func WithRetryPolicy(p retry.Policy) RunnerOption {
	return func(r *Runner) {
		if p.MaxAttempts > 0 {
			r.policy = p
		}
	}
}

// WithRetryClassifier sets the predicate deciding which task errors
// are retried, keeping the rest of the configured policy. Transport
// implementations usually provide one (see numverify.Retryable).
func WithRetryClassifier(fn func(err error) bool) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.policy.RetryIf = fn
		}
	}
}

// WithProgress registers a progress observer notified after each
// per-identifier completion.
func WithProgress(fn ProgressFunc) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithSink sets the output sink the batch's result lines are written
// to. The sink is acquired once per batch, after all tasks finish,
// and receives one line per identifier in input order. If not
// specified, results are only returned, not persisted.
func WithSink(sink SinkFunc) RunnerOption {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithRateLimit caps request throughput across the whole batch.
// perSecond is the sustained rate, burst the number of tasks that may
// start back to back. Useful against strict API quotas; the
// transport's connection cap already bounds concurrency.
// If not specified, no rate limiting is applied.
func WithRateLimit(perSecond float64, burst int) RunnerOption {
	return func(r *Runner) {
		if perSecond > 0 && burst > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithLogger sets the batch logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}
