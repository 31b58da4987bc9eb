package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"phoneverify/retry"
)

// Runner orchestrates one batch of validations.
//
// Each identifier gets its own retry-wrapped task; the Runner imposes
// no concurrency cap of its own, relying on the Transport's
// connection limit to bound outstanding work. Construct once and
// reuse across batches; Run is safe for sequential reuse.
type Runner struct {
	transport Transport
	validator *Validator
	policy    retry.Policy
	progress  ProgressFunc
	sink      SinkFunc
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewRunner creates a Runner over the given transport and validator.
//
// Example:
//
//	runner, err := verify.NewRunner(client, validator,
//	    verify.WithRetryPolicy(retry.Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}),
//	    verify.WithRetryClassifier(numverify.Retryable),
//	    verify.WithSink(verify.FileSink("validation_results.txt")),
//	    verify.WithProgress(func(completed, total int) { bar.Add(1) }),
//	)
func NewRunner(transport Transport, validator *Validator, opts ...RunnerOption) (*Runner, error) {
	if transport == nil {
		return nil, errors.New("verify: transport is required")
	}
	if validator == nil {
		return nil, errors.New("verify: validator is required")
	}

	r := &Runner{
		transport: transport,
		validator: validator,
		policy:    retry.DefaultPolicy(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// indexedResult carries a finished task's result back to the
// collector together with the task's position in the input.
type indexedResult struct {
	index  int
	result Result
}

// Run validates every identifier in numbers and returns the results
// positionally aligned to the input. Individual failures surface as
// negative results, never as an error; the returned error is non-nil
// only for cancellation or an unusable output sink.
//
// On a normal finish the configured sink receives one line per
// identifier, in input order, replacing any previous batch's content.
// On cancellation the partial results are discarded, the sink is left
// untouched, and the transport is still released.
func (r *Runner) Run(ctx context.Context, numbers []string) ([]Result, error) {
	defer r.transport.Release()

	total := len(numbers)
	log := r.log.With("run_id", uuid.NewString())
	log.Info("starting batch", "total", total)

	results := make([]Result, total)

	if total > 0 {
		g, gctx := errgroup.WithContext(ctx)

		completions := make(chan indexedResult, total)
		collectorDone := make(chan struct{})
		go func() {
			defer close(collectorDone)
			completed := 0
			for c := range completions {
				results[c.index] = c.result
				completed++
				if r.progress != nil {
					r.progress(completed, total)
				}
			}
		}()

		for i, number := range numbers {
			g.Go(func() error {
				if r.limiter != nil {
					if err := r.limiter.Wait(gctx); err != nil {
						return err
					}
				}

				result, err := r.validateOne(gctx, log, number)
				if err != nil {
					return err
				}

				// The channel is sized for the whole batch, so the
				// send never blocks.
				completions <- indexedResult{index: i, result: result}
				return nil
			})
		}

		err := g.Wait()
		close(completions)
		<-collectorDone

		if err != nil {
			log.Info("batch cancelled", "error", err)
			return nil, err
		}
	}

	if err := r.writeSink(numbers, results); err != nil {
		log.Error("writing results failed", "error", err)
		return nil, fmt.Errorf("writing results: %w", err)
	}

	valid := 0
	for _, result := range results {
		if result.Valid {
			valid++
		}
	}
	log.Info("batch complete", "total", total, "valid", valid, "invalid", total-valid)

	return results, nil
}

// validateOne resolves a single identifier under the retry policy.
// The returned error is non-nil only when the batch context is done;
// every other failure, exhausted retries and panics included, is
// isolated into a negative result so siblings keep running.
func (r *Runner) validateOne(ctx context.Context, log *slog.Logger, number string) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Error("panic during validation",
				"phone", number, "panic", rec, "stack", string(buf[:n]))
			result, err = Result{}, nil
		}
	}()

	result, rerr := retry.Do(ctx, r.policy, func(ctx context.Context) (Result, error) {
		return r.validator.Validate(ctx, r.transport, number)
	})
	if rerr == nil {
		return result, nil
	}

	if cerr := ctx.Err(); cerr != nil {
		return Result{}, cerr
	}

	log.Warn("validation failed", "phone", number, "error", rerr)
	return Result{}, nil
}

// writeSink writes one line per identifier, in input order, through
// the configured sink. A sink acquisition failure is the batch's only
// non-cancellation fatal error.
func (r *Runner) writeSink(numbers []string, results []Result) error {
	if r.sink == nil {
		return nil
	}

	w, err := r.sink()
	if err != nil {
		return err
	}

	for i, number := range numbers {
		if _, err := fmt.Fprintf(w, "Phone: %s, Result: %s\n", number, results[i]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
