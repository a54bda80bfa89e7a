// Package api is the HTTP gateway to the Career Navigator backend: one
// method per endpoint, no retries, no client-side state beyond the token source.
package api

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"CareerNav/internal/backend"
)

var (
	// ErrNotAuthenticated means no token was available; no request was sent.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrUnauthorized means the server rejected the token.
	ErrUnauthorized = errors.New("session expired or invalid")
)

// StatusError is a non-2xx response other than 401.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("API error %d: %s", e.Code, http.StatusText(e.Code))
}

// IsAuthError reports whether err should send the user back to login.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrUnauthorized)
}

// TokenSource yields the current bearer token.
type TokenSource interface {
	Token() (string, error)
}

// Client calls the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	tracer     trace.Tracer
	duration   metric.Float64Histogram
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTelemetry sets the tracer and meter; the otel globals are used otherwise.
func WithTelemetry(tracer trace.Tracer, meter metric.Meter) Option {
	return func(c *Client) {
		c.tracer = tracer
		if h, err := meter.Float64Histogram(
			"http.client.request.duration",
			metric.WithDescription("HTTP request duration in milliseconds"),
			metric.WithUnit("ms"),
		); err == nil {
			c.duration = h
		} else {
			c.logger.Warn("failed to create histogram", "error", err)
		}
	}
}

// New creates a Client. timeout bounds each request; expiry surfaces as an
// ordinary request failure.
func New(baseURL string, tokens TokenSource, logger *slog.Logger, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
	WithTelemetry(otel.Tracer("careernav/api"), otel.Meter("careernav/api"))(c)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type call struct {
	name        string
	method      string
	path        string
	auth        bool
	token       string // overrides the token source when set
	body        []byte
	contentType string
}

func jsonCall(name, method, path string, in any) (call, error) {
	c := call{name: name, method: method, path: path, auth: true}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return c, fmt.Errorf("failed to marshal request: %w", err)
		}
		c.body = b
		c.contentType = "application/json"
	}
	return c, nil
}

// do sends one request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	token := cl.token
	if cl.auth && token == "" {
		if c.tokens == nil {
			return ErrNotAuthenticated
		}
		t, err := c.tokens.Token()
		if err != nil || t == "" {
			return ErrNotAuthenticated
		}
		token = t
	}

	ctx, span := c.tracer.Start(ctx, cl.name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", cl.method),
		attribute.String("url.path", cl.path),
	)

	start := time.Now()
	status, err := c.roundTrip(ctx, cl, token, out)

	elapsed := time.Since(start)
	if c.duration != nil {
		c.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
			attribute.String("endpoint", cl.name),
			attribute.Int("http.response.status_code", status),
		))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("api call failed", "endpoint", cl.name, "status", status, "duration_ms", elapsed.Milliseconds(), "error", err)
		return err
	}
	c.logger.Debug("api call", "endpoint", cl.name, "status", status, "duration_ms", elapsed.Milliseconds())
	return nil
}

func (c *Client) roundTrip(ctx context.Context, cl call, token string, out any) (int, error) {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr backend.ErrorResponse
		detail := ""
		if json.Unmarshal(respBody, &apiErr) == nil {
			detail = apiErr.Message()
		}
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Detail: detail}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", backend.ErrMalformedResponse, err)
	}
	return resp.StatusCode, nil
}

// Health checks that the backend is reachable. No token needed.
func (c *Client) Health(ctx context.Context) error {
	var resp backend.HealthResponse
	if err := c.do(ctx, call{name: "health", method: http.MethodGet, path: "/health"}, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("backend unhealthy: %s", resp.Message)
	}
	return nil
}
