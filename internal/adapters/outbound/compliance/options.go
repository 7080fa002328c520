package compliance

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*Client)

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry configures retries of idempotent requests. Applying a fix is never retried.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.initialDelay = initialDelay
	}
}

// WithTarget restricts validation to a directory or file known to the server.
func WithTarget(target string) Option {
	return func(c *Client) { c.target = target }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}
