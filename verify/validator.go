package verify

import (
	"context"
	"errors"
	"log/slog"

	"phoneverify/cache"
)

// Checker performs one validation call for one identifier against the
// external lookup service.
//
// A nil error means the service produced a decision, valid or not.
// A non-nil error means no decision was reached: transport failures
// are retryable by the caller's policy, protocol failures are not.
type Checker interface {
	Check(ctx context.Context, id string) (Result, error)
}

// Transport is a Checker backed by pooled network resources. Release
// closes the pool's open connections; the Runner calls it on every
// batch exit path.
type Transport interface {
	Checker
	Release()
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets the logger used for cache-hit and decision
// logging. Defaults to a discarding logger.
func WithValidatorLogger(log *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// Validator resolves one identifier to a Result, consulting a cache
// before going to the network.
//
// The cache is supplied at construction and explicitly owned by the
// caller, so separate batches or tests can isolate their state. The
// Validator stores every decision the service produces, positive or
// negative, but never stores failures: a later call for the same
// identifier must re-attempt the network lookup.
type Validator struct {
	cache *cache.Cache[string, Result]
	log   *slog.Logger
}

// NewValidator creates a Validator over the given cache.
func NewValidator(c *cache.Cache[string, Result], opts ...ValidatorOption) (*Validator, error) {
	if c == nil {
		return nil, errors.New("verify: cache is required")
	}

	v := &Validator{
		cache: c,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate resolves id through the cache or, on a miss, through
// exactly one call on t. The hit path performs no network call and
// returns precisely the last decision stored for id.
//
// Retrying is the caller's responsibility; Validate itself never
// loops.
func (v *Validator) Validate(ctx context.Context, t Checker, id string) (Result, error) {
	if result, ok := v.cache.Get(id); ok {
		v.log.Debug("cache hit", "phone", id)
		return result, nil
	}

	result, err := t.Check(ctx, id)
	if err != nil {
		return Result{}, err
	}

	v.cache.Set(id, result)
	v.log.Debug("decision cached", "phone", id, "valid", result.Valid)
	return result, nil
}
