package benchmarks

import (
	"context"
	"strconv"
	"testing"

	"phoneverify/cache"
	"phoneverify/verify"
)

// instantTransport resolves every identifier locally so benchmarks
// measure orchestration overhead rather than network time.
type instantTransport struct{}

func (instantTransport) Check(_ context.Context, number string) (verify.Result, error) {
	return verify.Result{Valid: len(number)%2 == 0, Location: "US"}, nil
}

func (instantTransport) Release() {}

// makeNumbers builds count identifiers drawn from a pool of distinct
// values, so duplicate-heavy batches can be generated on demand.
func makeNumbers(count, distinct int) []string {
	numbers := make([]string, count)
	for i := range count {
		numbers[i] = strconv.Itoa(10_000_000_000 + i%distinct)
	}
	return numbers
}

// newBenchRunner wires a fresh cache, validator, and runner around the
// instant transport.
func newBenchRunner(b *testing.B, cacheSize int) (*verify.Runner, *cache.Cache[string, verify.Result]) {
	b.Helper()

	decisions := cache.New[string, verify.Result](cacheSize)
	validator, err := verify.NewValidator(decisions)
	if err != nil {
		b.Fatal(err)
	}
	runner, err := verify.NewRunner(instantTransport{}, validator)
	if err != nil {
		b.Fatal(err)
	}
	return runner, decisions
}
