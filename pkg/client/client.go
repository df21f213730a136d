package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRedirect is returned when the server answers with a redirect. Redirects
// are never followed.
var ErrRedirect = errors.New("redirect refused")

const maxBodySize = 8 << 20 // 8 MB

// Response is the envelope of every call: the status and, when the body was
// valid JSON, the raw document.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the parsed body into out.
func (r *Response) Decode(out any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client talks to one Fixadat or Squawg origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu         sync.Mutex
	csrfToken  string
	csrfLoaded bool
}

// Option configures a Client.
type Option func(*Client)

// WithCSRFToken sets the CSRF token up front instead of discovering it.
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.csrfToken = token
			c.csrfLoaded = true
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL. Cookies are kept for the lifetime of the
// client and redirects are refused.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return ErrRedirect
			},
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the origin the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func needsCSRF(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// Fetch performs one request. body, when not nil, is sent as JSON. The
// response body is parsed as JSON on a best-effort basis: a body that is not
// JSON is logged and dropped, never returned as an error. Non-2xx statuses are
// returned in the envelope, not as errors.
func (c *Client) Fetch(ctx context.Context, method, path, accessToken string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("X-Access-Token", accessToken)
	}
	if needsCSRF(method) {
		token, err := c.CSRFToken(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Csrf-Token", token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	out := &Response{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", requestID).Msg("read response body")
	} else if len(bytes.TrimSpace(data)) > 0 {
		if json.Valid(data) {
			out.Body = data
		} else {
			c.log.Debug().Str("request_id", requestID).Int("status", resp.StatusCode).Msg("response body is not JSON")
		}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("took", time.Since(start)).
		Msg("request")
	return out, nil
}

func (c *Client) get(ctx context.Context, path, token string) (*Response, error) {
	return c.Fetch(ctx, http.MethodGet, path, token, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body any) (*Response, error) {
	return c.Fetch(ctx, http.MethodPost, path, token, body)
}

func (c *Client) put(ctx context.Context, path, token string, body any) (*Response, error) {
	return c.Fetch(ctx, http.MethodPut, path, token, body)
}

func (c *Client) patch(ctx context.Context, path, token string, body any) (*Response, error) {
	return c.Fetch(ctx, http.MethodPatch, path, token, body)
}

func (c *Client) delete(ctx context.Context, path, token string) (*Response, error) {
	return c.Fetch(ctx, http.MethodDelete, path, token, nil)
}

// mutate sends a field-group update and requires 204.
func (c *Client) mutate(ctx context.Context, method, path, token string, body any) error {
	resp, err := c.Fetch(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusNoContent)
}
