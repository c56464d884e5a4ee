package client

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

	"github.com/dmitrijs2005/qacurator/internal/common"
	"github.com/dmitrijs2005/qacurator/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Client is the gateway contract used by the services.
type Client interface {
	// Do sends req and decodes a 2xx body into out. out may be nil, a
	// *[]byte for the raw body, or anything encoding/json can decode into.
	Do(ctx context.Context, req *Request, out any) error
	// Ping reports whether the server answers at all.
	Ping(ctx context.Context) error
}

// Credentials supplies the bearer token and is purged on a 401.
type Credentials interface {
	CurrentToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Request describes one call. Path is relative to the server base URL and is
// sent as written, trailing slash included.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any        // JSON-encoded when set
	Form   url.Values // urlencoded when set; wins over Body

	// Token, when set, is sent instead of the stored one.
	Token string
	// RequireToken fails the call locally when no token is available.
	RequireToken bool
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	base    string
	http    *http.Client
	creds   Credentials
	limiter *rate.Limiter
	log     logging.Logger
	newID   func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// New creates a gateway for baseURL. creds may be nil for a gateway that
// never authenticates.
func New(baseURL string, creds Credentials, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		base:  strings.TrimRight(u.String(), "/"),
		http:  &http.Client{Timeout: DefaultTimeout},
		creds: creds,
		log:   logging.Discard(),
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (c *HTTPClient) BaseURL() string { return c.base }

func (c *HTTPClient) Do(ctx context.Context, req *Request, out any) error {
	requestID := c.newID()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(requestID, err)
		}
	}

	token := req.Token
	if token == "" && c.creds != nil {
		t, err := c.creds.CurrentToken(ctx)
		if err != nil {
			c.log.Warn(ctx, "token lookup failed", "error", err)
		}
		token = t
	}
	if token == "" && req.RequireToken {
		return &APIError{Message: "not signed in", RequestID: requestID, Err: ErrNoCredential}
	}

	httpReq, err := c.build(ctx, req, token, requestID)
	if err != nil {
		return &APIError{Message: FallbackMessage, RequestID: requestID, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", httpReq.Method, "path", req.Path, "request_id", requestID, "error", err)
		return transportError(requestID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(requestID, err)
	}
	c.log.Debug(ctx, "request done",
		"method", httpReq.Method, "path", req.Path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
		if err := c.creds.Clear(ctx); err != nil {
			c.log.Error(ctx, "session purge after 401 failed", "error", err)
		} else {
			c.log.Info(ctx, "session purged after 401", "path", req.Path)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := detailMessage(body)
		if msg == "" {
			msg = FallbackMessage
		}
		return &APIError{Status: resp.StatusCode, Message: msg, RequestID: requestID}
	}

	return decode(body, out, resp.StatusCode, requestID)
}

// Ping probes the server root. Any HTTP answer below 500 counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return transportError("", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transportError("", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return &APIError{Status: resp.StatusCode, Message: "server unavailable", Err: ErrUnavailable}
	}
	return nil
}

func (c *HTTPClient) build(ctx context.Context, req *Request, token, requestID string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.base + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeader, requestID)
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	return httpReq, nil
}

func decode(body []byte, out any, status int, requestID string) error {
	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = body
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Status:    status,
			Message:   "unexpected response from server",
			RequestID: requestID,
			Err:       errors.Join(ErrMalformedResponse, err),
		}
	}
	return nil
}

func transportError(requestID string, err error) error {
	msg := "server unavailable"
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	} else if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &APIError{Message: msg, RequestID: requestID, Err: errors.Join(ErrUnavailable, err)}
}
