// Package apiclient is the JSON-over-HTTP transport shared by the Command and
// Query API repositories.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"personweb/internal/config"
	"personweb/internal/requestid"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorBytes    = 64 << 10
)

// StatusError is returned when a remote API answers with a non-2xx status.
type StatusError struct {
	API        string
	Method     string
	Path       string
	StatusCode int
	Body       string
	// Message is the error text found in a JSON body, if any.
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s api: %s %s returned status %d", e.API, e.Method, e.Path, e.StatusCode)
	switch {
	case e.Message != "":
		msg += ": " + e.Message
	case e.Body != "":
		msg += ": " + e.Body
	}
	return msg
}

// errorMessage picks the first of the usual error keys from a JSON body.
func errorMessage(body string) string {
	if !gjson.Valid(body) {
		return ""
	}
	for _, r := range gjson.GetMany(body, "message", "error.message", "error", "detail") {
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

// IsNotFound reports whether err is a 404 answer from a remote API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to one remote API rooted at a base URL.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logrus.FieldLogger
	metrics    *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for upstream error bodies.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for the API described by cfg. name labels logs, metrics and errors.
func New(name string, cfg config.APIConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("%s api: parse base url: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s api: base url must be absolute http(s), got %q", name, cfg.URL)
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logrus.StandardLogger(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the label given at construction.
func (c *Client) Name() string { return c.name }

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx JSON answer into out.
// An empty 2xx body leaves out untouched. Non-2xx answers return a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s api: rate limit wait: %w", c.name, err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s api: marshal request body: %w", c.name, err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s api: create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "error", start)
		return fmt.Errorf("%s api: %s %s: %w", c.name, method, path, err)
	}
	defer resp.Body.Close()
	c.observe(method, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, method, path, resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s api: read response body: %w", c.name, err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s api: decode response: %w", c.name, err)
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	se := &StatusError{
		API:        c.name,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
	se.Message = errorMessage(se.Body)
	c.log.WithFields(logrus.Fields{
		"api":        c.name,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": requestid.From(ctx),
		"body":       se.Body,
	}).Error("api returned error")
	return se
}

func (c *Client) observe(method, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.requests.WithLabelValues(c.name, method, status).Inc()
	c.metrics.duration.WithLabelValues(c.name, method).Observe(time.Since(start).Seconds())
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Ping checks that the API answers on path. Any status below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s api: create ping request: %w", c.name, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s api: ping: %w", c.name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s api: ping returned status %d", c.name, resp.StatusCode)
	}
	return nil
}
