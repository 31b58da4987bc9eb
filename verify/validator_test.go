package verify

import (
	"context"
	"errors"
	"testing"

	"phoneverify/cache"
)

func TestNewValidator_RequiresCache(t *testing.T) {
	if _, err := NewValidator(nil); err == nil {
		t.Fatal("expected an error for a nil cache")
	}
}

func TestValidator_Validate_CacheHitSkipsNetwork(t *testing.T) {
	transport := &fakeTransport{checkFn: alwaysValid("US")}
	validator, err := NewValidator(cache.New[string, Result](10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := validator.Validate(context.Background(), transport, "1234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := validator.Validate(context.Background(), transport, "1234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
	if got := transport.callsFor("1234567890"); got != 1 {
		t.Errorf("expected exactly 1 network call, got %d", got)
	}
}

func TestValidator_Validate_FailuresAreNotCached(t *testing.T) {
	failing := true
	transport := &fakeTransport{
		checkFn: func(ctx context.Context, id string) (Result, error) {
			if failing {
				return Result{}, errors.New("connection refused")
			}
			return Result{Valid: true, Location: "US"}, nil
		},
	}
	validator, err := NewValidator(cache.New[string, Result](10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := validator.Validate(context.Background(), transport, "555"); err == nil {
		t.Fatal("expected the transport failure to propagate")
	}

	// The failure must not have been cached: the next call goes back
	// to the network and gets the real decision.
	failing = false
	result, err := validator.Validate(context.Background(), transport, "555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Error("expected a valid decision after the transient failure")
	}
	if got := transport.callsFor("555"); got != 2 {
		t.Errorf("expected 2 network calls, got %d", got)
	}

	// And the successful decision is cached from now on.
	if _, err := validator.Validate(context.Background(), transport, "555"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := transport.callsFor("555"); got != 2 {
		t.Errorf("expected the decision to come from cache, got %d calls", got)
	}
}

func TestValidator_Validate_NegativeDecisionIsCached(t *testing.T) {
	transport := &fakeTransport{
		checkFn: func(ctx context.Context, id string) (Result, error) {
			return Result{Valid: false, Location: ""}, nil
		},
	}
	validator, err := NewValidator(cache.New[string, Result](10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 3 {
		result, err := validator.Validate(context.Background(), transport, "0000000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Error("expected an invalid decision")
		}
	}

	// "Invalid" is a decision from the service, so it caches like a
	// positive one.
	if got := transport.callsFor("0000000"); got != 1 {
		t.Errorf("expected 1 network call for a cached negative decision, got %d", got)
	}
}

func TestValidator_Validate_ErrorLeavesZeroResult(t *testing.T) {
	transport := &fakeTransport{
		checkFn: func(ctx context.Context, id string) (Result, error) {
			return Result{Valid: true, Location: "ignored"}, errors.New("timeout")
		},
	}
	validator, err := NewValidator(cache.New[string, Result](10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := validator.Validate(context.Background(), transport, "123")
	if err == nil {
		t.Fatal("expected error")
	}
	if result != (Result{}) {
		t.Errorf("expected zero result on failure, got %v", result)
	}
}
