// Package httpclient is a small retrying JSON HTTP client, adapted from the
// teacher's internal/client/http package: exponential backoff via
// cenkalti/backoff/v4, structured request/response logging via zap, and a
// functional-options construction style.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// ClientOption mutates the Client during construction.
type ClientOption func(*Client)

// Error wraps a non-2xx HTTP response.
type Error struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s: %s", e.Method, e.URL, e.StatusCode, e.Status, e.Body)
}

// Client is a base URL-scoped JSON HTTP client with retry support.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	retry          *RetryConfig
	logger         *zap.Logger
}

// RetryConfig configures exponential backoff retries.
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	Multiplier           float64
	MaxElapsedTime       time.Duration
	RetryableStatusCodes []int
}

// DefaultRetryConfig matches the teacher's provider-call defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      200 * time.Millisecond,
		MaxInterval:          5 * time.Second,
		Multiplier:           2.0,
		MaxElapsedTime:       20 * time.Second,
		RetryableStatusCodes: []int{408, 429, 500, 502, 503, 504},
	}
}

// New builds a Client. logger must not be nil; pass zap.NewNop() in tests.
func New(logger *zap.Logger, options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		retry:  DefaultRetryConfig(),
		logger: logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) { c.defaultHeaders[key] = value }
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func WithRetryConfig(cfg *RetryConfig) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

func WithBearerToken(token string) RequestOption {
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

func WithQueryParam(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Add(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	fullURL := path
	if c.baseURL != "" {
		trimmedBase := strings.TrimSuffix(c.baseURL, "/")
		trimmedPath := path
		if !strings.HasPrefix(trimmedPath, "/") {
			trimmedPath = "/" + trimmedPath
		}
		fullURL = trimmedBase + trimmedPath
	} else if _, err := url.ParseRequestURI(path); err != nil {
		return nil, errors.Wrapf(err, "invalid path used without base URL: %s", path)
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	var resp *http.Response
	var reqErr error

	if c.retry != nil && c.retry.MaxRetries > 0 {
		operation := func() error {
			resp, reqErr = c.httpClient.Do(req)
			if reqErr == nil && resp != nil {
				for _, code := range c.retry.RetryableStatusCodes {
					if resp.StatusCode == code {
						if resp.Body != nil {
							_, _ = io.Copy(io.Discard, resp.Body)
							_ = resp.Body.Close()
						}
						return fmt.Errorf("retryable status code: %d", resp.StatusCode)
					}
				}
			}
			return reqErr
		}

		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = c.retry.InitialInterval
		eb.MaxInterval = c.retry.MaxInterval
		eb.Multiplier = c.retry.Multiplier
		eb.MaxElapsedTime = c.retry.MaxElapsedTime

		reqErr = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.retry.MaxRetries)), ctx))
	} else {
		resp, reqErr = c.httpClient.Do(req)
	}

	duration := time.Since(start)
	if reqErr != nil {
		c.logger.Error("httpclient: request failed",
			zap.String("method", method), zap.String("url", fullURL), zap.Error(reqErr), zap.Duration("duration", duration))
		return nil, errors.Wrap(reqErr, "request failed")
	}

	if resp.StatusCode >= 400 {
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
		c.logger.Warn("httpclient: error response",
			zap.String("method", method), zap.String("url", fullURL), zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))
		return resp, &Error{StatusCode: resp.StatusCode, Status: resp.Status, URL: fullURL, Method: method, Body: string(bodyBytes)}
	}

	c.logger.Debug("httpclient: request succeeded",
		zap.String("method", method), zap.String("url", fullURL), zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))
	return resp, nil
}

// DecodeJSON decodes a JSON response body into target and closes the body.
func DecodeJSON(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
