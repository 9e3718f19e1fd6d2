package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/middleware/metrics"
)

// ErrMissingCSRFToken is returned by state-changing calls made without a CSRF token.
var ErrMissingCSRFToken = errors.New("csrf token is required for this request")

// Session carries the caller's backend credentials. Both values are opaque
// cookie values issued by the backend.
type Session struct {
	CSRFToken string
	SessionID string
}

func (s Session) csrf() *string {
	if s.CSRFToken == "" {
		return nil
	}
	return &s.CSRFToken
}

func (s Session) session() *string {
	if s.SessionID == "" {
		return nil
	}
	return &s.SessionID
}

// Interceptor observes every classified failure of a call made with sess.
type Interceptor func(ctx context.Context, sess Session, err error)

// APIClient struct handles all communication with the backend API.
type APIClient struct {
	BaseURL     string
	HttpClient  *http.Client
	Logger      *slog.Logger
	Interceptor Interceptor
}

// New creates a client for the backend at baseURL. Failures are reported to
// DetectSessionExpired unless Interceptor is replaced.
func New(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HttpClient:  &http.Client{Timeout: timeout},
		Logger:      logger.Log,
		Interceptor: DetectSessionExpired,
	}
}

func (c *APIClient) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Log
}

// transportError is a failed round trip reported in the same shape as an
// HTTP failure, with status 0.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }
func (e *transportError) Status() int   { return 0 }
func (e *transportError) Text() string  { return "backend unavailable: " + e.err.Error() }

// do is the single helper every resource call goes through. A non-nil body
// is sent as JSON.
func (c *APIClient) do(ctx context.Context, op, method, path string, headers http.Header, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	for key, values := range headers {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		metrics.ObserveAPICall(op, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &transportError{err: err}
	}
	metrics.ObserveAPICall(op, resp.StatusCode, time.Since(start))
	c.log().Debug("api call", "op", op, "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

// fail classifies err and hands it to the interceptor.
func (c *APIClient) fail(ctx context.Context, op string, sess Session, err error) error {
	classified := HandleError(ctx, op, err)
	if c.Interceptor != nil {
		c.Interceptor(ctx, sess, classified)
	}
	return classified
}

// requireCSRF fails fast for state-changing calls lacking a token.
func requireCSRF(sess Session) error {
	if sess.CSRFToken == "" {
		return ErrMissingCSRFToken
	}
	return nil
}

// fetchJSON performs a call whose successful response carries a T.
func fetchJSON[T any](ctx context.Context, c *APIClient, op string, sess Session, method, path string, headers http.Header, body any) (T, error) {
	var zero T
	resp, err := c.do(ctx, op, method, path, headers, body)
	if err != nil {
		return zero, c.fail(ctx, op, sess, err)
	}
	out, err := HandleResponse[T](resp, c.log())
	if err != nil {
		return zero, c.fail(ctx, op, sess, err)
	}
	return out, nil
}

func fetchPage[T any](ctx context.Context, c *APIClient, op string, sess Session, path string, headers http.Header) (Page[T], error) {
	resp, err := c.do(ctx, op, http.MethodGet, path, headers, nil)
	if err != nil {
		return Page[T]{}, c.fail(ctx, op, sess, err)
	}
	page, err := HandlePaginatedResponse[T](resp, c.log())
	if err != nil {
		return Page[T]{}, c.fail(ctx, op, sess, err)
	}
	return page, nil
}

// fetchEmpty performs a call whose successful response body is ignored.
// The response is returned so callers can read headers such as Set-Cookie.
func fetchEmpty(ctx context.Context, c *APIClient, op string, sess Session, method, path string, headers http.Header, body any) (*http.Response, error) {
	resp, err := c.do(ctx, op, method, path, headers, body)
	if err != nil {
		return nil, c.fail(ctx, op, sess, err)
	}
	if err := HandleEmptyResponse(resp); err != nil {
		return nil, c.fail(ctx, op, sess, err)
	}
	return resp, nil
}
