package verify

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"phoneverify/cache"
)

// fakeTransport is a scriptable Transport double that counts network
// calls per identifier and transport releases.
type fakeTransport struct {
	checkFn func(ctx context.Context, id string) (Result, error)

	mu        sync.Mutex
	calls     map[string]int
	totalCall atomic.Int32
	releases  atomic.Int32
}

func (f *fakeTransport) Check(ctx context.Context, id string) (Result, error) {
	f.totalCall.Add(1)
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	f.mu.Unlock()

	return f.checkFn(ctx, id)
}

func (f *fakeTransport) Release() {
	f.releases.Add(1)
}

func (f *fakeTransport) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// alwaysValid answers every identifier with the same positive
// decision.
func alwaysValid(location string) func(ctx context.Context, id string) (Result, error) {
	return func(ctx context.Context, id string) (Result, error) {
		return Result{Valid: true, Location: location}, nil
	}
}

// newTestRunner wires a fresh cache, validator and runner around the
// given transport.
func newTestRunner(t *testing.T, transport Transport, opts ...RunnerOption) *Runner {
	t.Helper()

	validator, err := NewValidator(cache.New[string, Result](cache.DefaultCapacity))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runner, err := NewRunner(transport, validator, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return runner
}
