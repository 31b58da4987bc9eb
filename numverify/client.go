// Package numverify implements the outbound client for the numverify
// phone-validation API.
//
// The client owns a connection-limited HTTP transport shared by all
// concurrent lookups; the limit, together with the per-request
// timeout, is what bounds a batch's parallelism. One Check call maps
// to exactly one GET request.
package numverify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phoneverify/verify"
)

const (
	// DefaultBaseURL is the public numverify endpoint.
	DefaultBaseURL = "http://apilayer.net"

	// DefaultTimeout bounds one request, connection setup included.
	DefaultTimeout = 5 * time.Second

	// DefaultConnectionLimit caps simultaneous open connections to
	// the service.
	DefaultConnectionLimit = 100

	// maxErrorBody limits how much of a non-success response body is
	// kept for the error message.
	maxErrorBody = 512
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConnectionLimit caps the number of simultaneously open
// connections to the service. Defaults to 100.
func WithConnectionLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.connLimit = n
		}
	}
}

// WithBaseURL overrides the service endpoint, mainly for tests and
// self-hosted deployments.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client entirely,
// bypassing the timeout and connection-limit options.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the client's logger. Defaults to a discarding
// logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client calls the numverify validation API. It is safe for
// concurrent use; all lookups share one pooled transport.
type Client struct {
	http      *http.Client
	baseURL   string
	accessKey string
	timeout   time.Duration
	connLimit int
	log       *slog.Logger
}

var _ verify.Transport = (*Client)(nil)

// New creates a Client authenticating with accessKey.
func New(accessKey string, opts ...Option) (*Client, error) {
	if accessKey == "" {
		return nil, errors.New("numverify: access key is required")
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		accessKey: accessKey,
		timeout:   DefaultTimeout,
		connLimit: DefaultConnectionLimit,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = newHTTPClient(c.timeout, c.connLimit)
	}
	return c, nil
}

// newHTTPClient builds the pooled transport: connLimit caps open
// connections per host (dials beyond the cap block until a slot
// frees), timeout bounds each request end to end.
func newHTTPClient(timeout time.Duration, connLimit int) *http.Client {
	transport := &http.Transport{
		MaxConnsPerHost:     connLimit,
		MaxIdleConns:        connLimit,
		MaxIdleConnsPerHost: connLimit,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// response carries the fields the pipeline consumes. Pointers
// distinguish a field that is absent from one that is false/empty;
// a decision requires both valid and location to be present.
type response struct {
	Valid    *bool     `json:"valid"`
	Location *string   `json:"location"`
	Error    *apiError `json:"error"`
}

// apiError is numverify's error envelope, returned with HTTP 200 for
// problems like an invalid access key.
type apiError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// Check looks up one phone number. A nil error means the service
// produced a decision; the decision itself may still be negative.
// Non-success statuses surface as *Error and unusable payloads as
// ErrMalformed, both non-retryable; anything else wraps the
// underlying transport failure and is fair game for a retry.
func (c *Client) Check(ctx context.Context, number string) (verify.Result, error) {
	query := url.Values{
		"access_key": {c.accessKey},
		"number":     {number},
	}
	endpoint := c.baseURL + "/api/validate?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return verify.Result{}, fmt.Errorf("numverify: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return verify.Result{}, fmt.Errorf("numverify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("unexpected response status", "status", resp.StatusCode, "phone", number)
		return verify.Result{}, &Error{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return verify.Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if payload.Valid == nil || payload.Location == nil {
		if payload.Error != nil {
			c.log.Error("service error", "code", payload.Error.Code, "type", payload.Error.Type)
			return verify.Result{}, fmt.Errorf("%w: %s (code %d)", ErrMalformed, payload.Error.Type, payload.Error.Code)
		}
		return verify.Result{}, fmt.Errorf("%w: validity fields missing", ErrMalformed)
	}

	return verify.Result{Valid: *payload.Valid, Location: *payload.Location}, nil
}

// Release closes the transport's idle connections. The client remains
// usable afterwards; a later Check simply dials fresh connections.
func (c *Client) Release() {
	c.http.CloseIdleConnections()
}
