// Package verify implements the concurrent batch phone-validation
// pipeline.
//
// The central type is Runner, which fans out one validation task per
// identifier, wraps each task in a retry policy, isolates individual
// failures, reports progress as tasks complete, and writes the
// batch's results to an output sink in input order. Validator holds
// the cache-first lookup logic for a single identifier, and Transport
// abstracts the connection-limited client that performs the actual
// network call.
//
// # Basic Usage
//
//	c := cache.New[string, verify.Result](100)
//	validator, _ := verify.NewValidator(c)
//	runner, _ := verify.NewRunner(client, validator,
//	    verify.WithSink(verify.FileSink("validation_results.txt")),
//	)
//	results, err := runner.Run(ctx, []string{"1234567890", "0987654321"})
//
// # Failure Isolation
//
// A failing identifier never aborts the batch: transport failures are
// retried with exponential backoff, and once retries are exhausted
// (or the failure is non-retryable) the identifier contributes a
// negative Result while its siblings proceed. Only resource-setup
// problems, such as an unopenable output sink, fail the whole run.
//
// # Cancellation
//
// Run honors its context at every suspension point: the network call,
// the backoff wait, and the completion collection. Cancelling the
// context unwinds all in-flight tasks, releases the transport, and
// returns the context's error without writing the sink.
//
// # Progress
//
// An optional ProgressFunc observes completions as they happen, in
// completion order, receiving (completed, total) after each task
// finishes. The final results slice is always aligned to the input
// order regardless of completion order.
package verify
