// Package httpclient provides the HTTP client used for dataset page
// fetching, with retry, per-source rate limiting and timeout support.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/rate"
	"subsift/internal/platform/retry"
)

// Client wraps http.Client with bounded retries and rate limiting.
// Request bodies are taken as byte slices so retried attempts can replay them.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	policy      retry.Policy
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt. Default: 3.
	MaxRetries int

	// RetryBackoff is the initial backoff, growing exponentially. Default: 1s.
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff between attempts. Default: 30s.
	MaxRetryBackoff time.Duration

	// UserAgent is sent on every request. Default: "subsift/1.0".
	UserAgent string

	// RateLimit is the maximum requests per second (0 = no limit).
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting. Default: 1.
	RateLimitBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "subsift/1.0",
		RateLimit:       0,
		RateLimitBurst:  1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "subsift/1.0"
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	var rateLimiter *rate.Limiter
	if config.RateLimit > 0 {
		rateLimiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: rateLimiter,
		policy: retry.Policy{
			MaxAttempts: config.MaxRetries + 1,
			BaseDelay:   config.RetryBackoff,
			MaxDelay:    config.MaxRetryBackoff,
			Multiplier:  2.0,
		},
		logger: logger.With("component", "httpx"),
		config: config,
	}
}

// Request performs an HTTP request with retry and rate limiting.
// Transient failures (transport errors, 429, 5xx) are retried with backoff;
// other statuses return the response as-is for the caller to inspect.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var resp *http.Response

	err := c.policy.Do(ctx, func(ctx context.Context) error {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return err
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "build request %s %s: %v", method, url, err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request", "method", method, "url", url)

		start := time.Now()
		r, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Warn("HTTP request failed",
				"method", method,
				"url", url,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			return classifyTransport(err)
		}

		c.logger.Debug("HTTP response received",
			"method", method,
			"url", url,
			"status", r.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if serr := statusError(r.StatusCode); serr != nil && errors.IsTransient(serr) {
			r.Body.Close()
			c.logger.Warn("HTTP request returned retryable status",
				"method", method,
				"url", url,
				"status", r.StatusCode,
			)
			return serr
		}

		resp = r
		return nil
	})

	if err != nil {
		return nil, errors.Wrapf(err, "request %s %s failed", method, url)
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, url, body, headers)
}

// FetchJSON performs a GET request expecting JSON and returns the body.
// Non-2xx statuses become taxonomy errors.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	headers := map[string]string{"Accept": "application/json"}
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}
	return ReadBody(resp)
}

// PostJSON performs a POST with a JSON body and returns the response body.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte) ([]byte, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	resp, err := c.Post(ctx, url, body, headers)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}
	return ReadBody(resp)
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus validates the HTTP status code, mapping failures onto the
// error taxonomy.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
}

// statusError maps retryable status codes onto taxonomy sentinels.
func statusError(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errors.Wrapf(errors.ErrRateLimit, "HTTP %d", code)
	case code >= 500:
		return errors.Wrapf(errors.ErrServiceUnavailable, "HTTP %d", code)
	default:
		return nil
	}
}

// classifyTransport maps transport errors onto taxonomy sentinels so the
// retry policy treats them as transient.
func classifyTransport(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrapf(errors.ErrTimeout, "%v", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrapf(errors.ErrConnectionFailed, "%v", err)
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.MaxRetries,
		c.config.RateLimit,
	)
}
