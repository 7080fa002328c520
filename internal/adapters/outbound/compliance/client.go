// Package compliance is the HTTP client for the documentation compliance backend.
package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/domain"
)

const (
	validatePath = "/api/v1/compliance/validate"
	fixPath      = "/api/v1/compliance/fix"
	maxBodyBytes = 10 << 20

	opValidate = "validate"
	opFix      = "fix"
)

// Client implements domain.ComplianceClient over HTTP.
type Client struct {
	baseURL      string
	token        string
	target       string
	http         *http.Client
	timeout      time.Duration
	maxAttempts  int
	initialDelay time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		maxAttempts:  domain.DefaultMaxAttempts,
		initialDelay: domain.DefaultDelayMillis * time.Millisecond,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, fn := range opts {
		fn(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// NewFromConfig creates a client from project configuration.
func NewFromConfig(cfg domain.Config, logger *zap.Logger) *Client {
	cfg = cfg.WithDefaults()
	return New(cfg.Server.BaseURL,
		WithToken(cfg.Server.Token),
		WithTimeout(cfg.Timeout()),
		WithRetry(cfg.Retry.MaxAttempts, cfg.InitialDelay()),
		WithTarget(cfg.Target),
		WithLogger(logger),
	)
}

// FetchSnapshot runs validation on the server and normalizes the result.
func (c *Client) FetchSnapshot(ctx context.Context) (*domain.ComplianceSnapshot, error) {
	endpoint := c.baseURL + validatePath
	if c.target != "" {
		endpoint += "?" + url.Values{"target": {c.target}}.Encode()
	}

	payload, err := withRetry(ctx, c, func(ctx context.Context) (*domain.ValidationPayload, error) {
		body, err := c.send(ctx, opValidate, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		if err := checkSchema(validateSchemaLoader, body); err != nil {
			return nil, &domain.ParseError{Op: opValidate, Err: err}
		}
		var p domain.ValidationPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, &domain.ParseError{Op: opValidate, Err: err}
		}
		return &p, nil
	})
	if err != nil {
		c.logger.Warn("compliance validation failed", zap.Error(err))
		return nil, err
	}

	snap := domain.NewSnapshot(*payload, c.now())
	c.logger.Debug("compliance snapshot fetched",
		zap.Float64("score", snap.Score),
		zap.Int("violations", len(snap.Violations)))
	return snap, nil
}

// Fix requests a fix for ruleID in the file at path. Dry runs are retried on
// transport and 5xx failures; real fixes are sent exactly once.
func (c *Client) Fix(ctx context.Context, path, ruleID string, dryRun bool) (*domain.FixResult, error) {
	if path == "" {
		return nil, &domain.ValidationError{RuleID: ruleID, Reason: domain.ReasonPathMissing}
	}

	reqBody, err := json.Marshal(domain.FixRequest{FilePath: path, RuleID: ruleID, DryRun: dryRun})
	if err != nil {
		return nil, fmt.Errorf("encoding fix request: %w", err)
	}

	call := func(ctx context.Context) (*domain.FixResult, error) {
		body, err := c.send(ctx, opFix, http.MethodPost, c.baseURL+fixPath, reqBody)
		if err != nil {
			return nil, err
		}
		if err := checkSchema(fixSchemaLoader, body); err != nil {
			return nil, &domain.ParseError{Op: opFix, Err: err}
		}
		var res domain.FixResult
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, &domain.ParseError{Op: opFix, Err: err}
		}
		return &res, nil
	}

	var res *domain.FixResult
	if dryRun {
		res, err = withRetry(ctx, c, call)
	} else {
		res, err = call(ctx)
	}
	if err != nil {
		c.logger.Warn("fix request failed",
			zap.String("path", path),
			zap.String("rule_id", ruleID),
			zap.Bool("dry_run", dryRun),
			zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (c *Client) send(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "docqms")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ServerError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(resp, data)}
	}
	return data, nil
}

// errorDetail extracts the FastAPI-style {"detail": ...} reason, falling back
// to the HTTP status text.
func errorDetail(resp *http.Response, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			return string(envelope.Detail)
		}
	}
	if resp.Status != "" {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}

// retryable reports whether a failed idempotent request may be sent again.
func retryable(err error) bool {
	var ne *domain.NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var se *domain.ServerError
	return errors.As(err, &se) && se.StatusCode >= 500
}

// withRetry runs op under the client's retry policy. Errors that are not
// retryable end the loop on the first attempt.
func withRetry[T any](ctx context.Context, c *Client, op func(context.Context) (T, error)) (T, error) {
	r := retry.New[T](retry.Config{
		MaxAttempts:   c.maxAttempts,
		InitialDelay:  c.initialDelay,
		BackoffPolicy: retry.BackoffExponential,
	})

	var terminal, last error
	res, err := r.Do(ctx, func(ctx context.Context) (T, error) {
		out, err := op(ctx)
		if err != nil && !retryable(err) {
			terminal = err
			var zero T
			return zero, nil
		}
		last = err
		return out, err
	})
	if terminal != nil {
		var zero T
		return zero, terminal
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if last != nil {
				return res, fmt.Errorf("%w: %w", ctxErr, last)
			}
			return res, ctxErr
		}
		// Surface the last typed error rather than the retrier's wrapper.
		if last != nil {
			return res, last
		}
		return res, err
	}
	return res, nil
}
