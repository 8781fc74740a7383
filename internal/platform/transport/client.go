package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every request. Retry policy lives with callers;
	// mutating operations are never retried automatically.
	DefaultTimeout = 15 * time.Second

	maxErrorBodyBytes = 2048

	idempotencyHeader = "X-Idempotency-Key"
)

// CredentialSource supplies the bearer credential for authenticated calls.
// It is read at send time so every request sees the latest token.
type CredentialSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a CredentialSource. It lets the
// wiring layer close over a session manager that is constructed after the
// transport client.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
	// Anonymous suppresses credential decoration for login/register flows.
	Anonymous bool
	// IdempotencyKey tags single-shot mutations so the backend can detect
	// an accidental double submission.
	IdempotencyKey string
}

// Response is the raw outcome of a successful (2xx) call.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into a loosely typed value for normalization.
// An empty body decodes to nil.
func (r *Response) Decode() (any, error) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal(r.Body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// Config collects the client settings. Only BaseURL is required.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	DefaultHeader http.Header
	Credentials   CredentialSource
	// OnAuthFailure receives the token that was rejected whenever an
	// authenticated call comes back 401. Deduplication is the session
	// manager's job, not the transport's.
	OnAuthFailure func(token string)
	// RatePerSecond enables a client-side limiter when positive.
	RatePerSecond float64
	Hooks         []Hook
}

// Client issues HTTP requests against the backend base address. It decorates
// authenticated calls with the current bearer credential and inspects every
// response for authorization failures. No retries happen at this layer.
type Client struct {
	baseURL       string
	http          *http.Client
	defaultHeader http.Header
	credentials   CredentialSource
	onAuthFailure func(string)
	limiter       *rate.Limiter
	hooks         []Hook
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("transport: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &Client{
		baseURL:       base,
		http:          &http.Client{Timeout: timeout},
		defaultHeader: cfg.DefaultHeader.Clone(),
		credentials:   cfg.Credentials,
		onAuthFailure: cfg.OnAuthFailure,
		limiter:       limiter,
		hooks:         append([]Hook(nil), cfg.Hooks...),
	}, nil
}

// Send performs one call and returns the raw response, or an *Error when the
// call could not complete or the server answered outside the 2xx range.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newNetworkError(err)
		}
	}

	httpReq, token, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, hook := range c.hooks {
		if hook.BeforeSend != nil {
			hook.BeforeSend(httpReq)
		}
	}
	slog.Debug("backend request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Bool("anonymous", req.Anonymous),
	)

	res, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			slog.Warn("backend request timed out", slog.String("method", req.Method), slog.String("path", req.Path))
			return nil, newTimeoutError(err)
		}
		slog.Warn("backend unreachable", slog.String("method", req.Method), slog.String("path", req.Path), slog.Any("error", err))
		return nil, newNetworkError(err)
	}
	defer res.Body.Close()

	for _, hook := range c.hooks {
		if hook.AfterReceive != nil {
			hook.AfterReceive(res)
		}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		if res.StatusCode == http.StatusUnauthorized && !req.Anonymous && c.onAuthFailure != nil {
			c.onAuthFailure(token)
		}
		slog.Warn("backend error response",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("status", res.StatusCode),
		)
		return nil, newHTTPError(res.StatusCode, body)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}
	return &Response{Status: res.StatusCode, Header: res.Header.Clone(), Body: body}, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, string, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, reader)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.defaultHeader {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	var token string
	if !req.Anonymous && c.credentials != nil {
		token = strings.TrimSpace(c.credentials.Token())
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		httpReq.Header.Set(idempotencyHeader, key)
	}
	return httpReq, token, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
