// Package api is the single choke point for network I/O against the
// marketplace backend. All higher-level services go through Client, which
// attaches the session token, enforces the JSON content type, and turns
// every failure into a typed apierr.Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"gametrade/apierr"
	"gametrade/internal/metrics"
)

// TokenProvider supplies the current bearer token, if one is held. The
// session store implements this; the client never owns token state itself.
type TokenProvider interface {
	Token() (string, bool)
}

// Client issues HTTP requests against a fixed base URL. A single attempt is
// made per call; retry policy belongs to the caller (typically a user
// action such as pull-to-refresh).
type Client struct {
	baseURL   *url.URL
	httpc     *http.Client
	tokens    TokenProvider
	metrics   *metrics.Client
	cache     *responseCache
	log       zerolog.Logger
	logBodies bool
}

// Option modifies a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (primarily for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithTokenProvider wires the source of the bearer token.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithMetrics enables per-request outcome counters.
func WithMetrics(m *metrics.Client) Option {
	return func(c *Client) { c.metrics = m }
}

// WithCache enables in-memory caching of successful GET bodies. The cache
// is wiped wholesale on logout via InvalidateCache.
func WithCache() Option {
	return func(c *Client) { c.cache = newResponseCache() }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBodyLogging turns on raw response body logging at debug level.
// Diagnostics only; it never influences control flow and must stay off in
// production builds.
func WithBodyLogging() Option {
	return func(c *Client) { c.logBodies = true }
}

// New builds a Client for the given HTTPS origin. The backend serves its
// whole API under an /api prefix, which is appended when missing.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(u.Path, "/api") {
		u.Path += "/api"
	}
	u.Path += "/"

	c := &Client{
		baseURL: u,
		httpc:   http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenProvider wires the token source after construction. The client
// and the session store reference each other (the store invalidates the
// client's cache on logout), so one side has to be bound late.
func (c *Client) SetTokenProvider(tp TokenProvider) {
	c.tokens = tp
}

// RawResponse exposes the pieces of an HTTP exchange that call sites with
// protocol-level needs (the login flow, status-code branching) inspect.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports a 2xx status.
func (r *RawResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// SetCookieValues returns every Set-Cookie value the server sent, whether
// it arrived as one combined header or several. Callers never probe the
// header map directly.
func (r *RawResponse) SetCookieValues() []string {
	return r.Header.Values("Set-Cookie")
}

func (c *Client) endpointURL(endpoint string) (*url.URL, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if rel.IsAbs() || strings.HasPrefix(rel.Path, "/") {
		return nil, fmt.Errorf("endpoint %q must be relative to the API base", endpoint)
	}
	return c.baseURL.ResolveReference(rel), nil
}

// Do performs a single HTTP exchange and returns the raw outcome. Non-2xx
// statuses are not errors at this level; callers that want the standard
// classification use JSON or Request instead.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*RawResponse, error) {
	target, err := c.endpointURL(endpoint)
	if err != nil {
		c.metrics.ObserveRequest(method, "invalid_url")
		return nil, apierr.InvalidURL(endpoint, err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apierr.Decoding(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		c.metrics.ObserveRequest(method, "invalid_url")
		return nil, apierr.InvalidURL(endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// A peer that answers with something other than HTTP surfaces as
		// a malformed-response parse failure, not a connectivity problem.
		if strings.Contains(err.Error(), "malformed HTTP") {
			c.metrics.ObserveRequest(method, "invalid_response")
			return nil, apierr.InvalidResponse(err.Error())
		}
		c.metrics.ObserveRequest(method, "network")
		return nil, apierr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveRequest(method, "network")
		return nil, apierr.Network(err)
	}

	if c.logBodies {
		c.log.Debug().
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Bytes("body", data).
			Msg("backend response")
	}
	c.metrics.ObserveRequest(method, outcomeForStatus(resp.StatusCode))

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// JSON performs a request and applies the standard status classification,
// returning the raw body of a 2xx response.
func (c *Client) JSON(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	if method == http.MethodGet && c.cache != nil {
		if cached, ok := c.cache.get(endpoint); ok {
			return cached, nil
		}
	}

	resp, err := c.Do(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apierr.Unauthorized()
	}
	if !resp.Success() {
		return nil, apierr.Server(resp.StatusCode, string(resp.Body))
	}

	if method == http.MethodGet && c.cache != nil {
		c.cache.put(endpoint, resp.Body)
	}
	return resp.Body, nil
}

// InvalidateCache drops every cached response. Called on logout and session
// expiry so stale authenticated data is never served afterwards. No-op when
// caching is disabled.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.purge()
	}
}

// Request issues a call and decodes the 2xx response body into T. An empty
// body yields T's zero value, which side-effect calls (DELETE, PUT) rely on.
func Request[T any](ctx context.Context, c *Client, method, endpoint string, body any) (T, error) {
	var zero T
	data, err := c.JSON(ctx, method, endpoint, body)
	if err != nil {
		return zero, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, apierr.Decoding(err)
	}
	return out, nil
}

func outcomeForStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code >= 200 && code <= 299:
		return "ok"
	default:
		return "server_error"
	}
}
