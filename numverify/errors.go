package numverify

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformed marks a response the service answered with but the
// pipeline cannot use as a decision: undecodable payloads and
// payloads missing the validity fields. Malformed responses are not
// retried; repeating the same request would yield the same answer.
var ErrMalformed = errors.New("malformed validation response")

// Error is a non-success HTTP response from the validation service.
// Like a malformed payload it is not retryable: the service answered,
// just not with a decision.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("numverify: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("numverify: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable classifies a Check error for retry purposes: transport
// failures (timeouts, connection errors) are worth retrying, protocol
// failures and cancellation are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return false
	case errors.Is(err, ErrMalformed):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
