package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 10 * time.Second

// FetchResult is the uniform outcome of an API call. Data is meaningful only
// when Success is true, Error only when it is false.
type FetchResult[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful result.
func OK[T any](data T) FetchResult[T] {
	return FetchResult[T]{Success: true, Data: data}
}

// Fail builds a failed result.
func Fail[T any](format string, a ...any) FetchResult[T] {
	return FetchResult[T]{Error: fmt.Sprintf(format, a...)}
}

// OrElse returns Data on success and fallback otherwise.
func (r FetchResult[T]) OrElse(fallback T) T {
	if r.Success {
		return r.Data
	}
	return fallback
}

// Client performs requests against a base URL such as http://host:8080/api.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger logs failed requests to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL endpoints are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET request for endpoint.
func Get[T any](ctx context.Context, c *Client, endpoint string) FetchResult[T] {
	return Request[T](ctx, c, http.MethodGet, endpoint, nil)
}

// Post issues a POST request with body encoded as JSON.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) FetchResult[T] {
	return Request[T](ctx, c, http.MethodPost, endpoint, body)
}

// Request performs one call and decodes a JSON response into T.
func Request[T any](ctx context.Context, c *Client, method, endpoint string, body any) FetchResult[T] {
	result := doRequest[T](ctx, c, method, endpoint, body)
	if !result.Success {
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("error", result.Error))
	}
	return result
}

func doRequest[T any](ctx context.Context, c *Client, method, endpoint string, body any) FetchResult[T] {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Fail[T]("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return Fail[T]("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Fail[T]("%v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail[T]("failed to read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Fail[T]("%s", errorMessage(raw, resp.StatusCode))
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return Fail[T]("failed to decode response: %v", err)
	}
	return OK(data)
}

// errorMessage extracts "detail" or "error" from a JSON error body, falling
// back to the status code.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("Error: %d", status)
}
