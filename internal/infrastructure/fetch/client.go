package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/logger"
	"github.com/smartcart/backend/internal/metrics"
)

const (
	userAgent = "SmartCart/1.0"

	// maxErrorBody bounds how much of a failed response body is kept
	maxErrorBody = 512
)

// Request describes one logical upstream call
type Request struct {
	Method string
	URL    string
	Body   any
	Header http.Header
}

// Client fetches JSON resources with bounded retry, exponential backoff and
// a per-attempt timeout. Attempts run one at a time.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *logger.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit throttles attempts to limit per second with the given burst.
// A non-positive limit means unlimited.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithLogger sets the logger used for retry diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new fetch client
func NewClient(opts ...Option) *Client {
	c := &Client{
		// Attempt deadlines come from the policy, not from the transport
		httpClient:  &http.Client{},
		rateLimiter: rate.NewLimiter(rate.Inf, 0),
		log:         logger.Nop(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, url string, policy RetryPolicy, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: url}, policy, out)
}

// Do runs req under policy and decodes a successful JSON body into out.
// When every attempt fails the error of the final attempt is returned
// unchanged. Cancelling ctx stops the operation, including during backoff.
func (c *Client) Do(ctx context.Context, req Request, policy RetryPolicy, out any) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < policy.Retries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		lastErr = c.attempt(ctx, req, body, policy.Timeout, out)
		metrics.FetchAttempts.WithLabelValues(string(KindOf(lastErr))).Inc()
		if lastErr == nil {
			c.observe("success", start)
			return nil
		}
		if !retryable(ctx, lastErr) {
			c.observe("aborted", start)
			return lastErr
		}

		if attempt == policy.Retries-1 {
			break
		}

		c.log.Warn("fetch attempt failed, retrying",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt+1),
			zap.String("kind", string(KindOf(lastErr))),
			zap.Error(lastErr),
		)

		if err := c.sleep(ctx, policy.Backoff(attempt)); err != nil {
			c.observe("aborted", start)
			return err
		}
	}

	c.log.Error("all fetch attempts failed",
		zap.String("url", req.URL),
		zap.Int("attempts", policy.Retries),
		zap.String("kind", string(KindOf(lastErr))),
		zap.Error(lastErr),
	)
	c.observe("exhausted", start)
	return lastErr
}

// attempt performs a single physical request. Its timeout context is
// released before returning.
func (c *Client) attempt(ctx context.Context, req Request, body []byte, timeout time.Duration, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, req.URL, reader)
	if err != nil {
		return &requestError{err: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return classifyTransportError(ctx, attemptCtx, req.URL, timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := readLimitedBody(resp.Body, maxErrorBody)
		return &HTTPStatusError{
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(errBody),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(ctx, attemptCtx, req.URL, timeout, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{URL: req.URL, Err: err}
	}
	return nil
}

func (c *Client) observe(result string, start time.Time) {
	metrics.FetchRequests.WithLabelValues(result).Inc()
	metrics.FetchLatency.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

// requestError marks failures that no retry can fix
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var reqErr *requestError
	return !errors.As(err, &reqErr)
}

// classifyTransportError separates the attempt deadline from caller
// cancellation and plain connectivity failures.
func classifyTransportError(parent, attemptCtx context.Context, url string, timeout time.Duration, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Timeout: timeout}
	}
	return &NetworkError{URL: url, Err: err}
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request body: %v", domain.ErrInvalidRequest, err)
	}
	return data, nil
}

// statusText returns the reason phrase, falling back to the standard text
func statusText(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
