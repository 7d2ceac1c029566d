// Package upstream holds the outbound HTTP plumbing shared by the matrix,
// solver and geometry adapters: context-bound requests, status
// classification and bounded body reads.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 8 << 20

// maxSnippet caps upstream text echoed back to callers.
const maxSnippet = 512

// Client performs requests against one upstream.
type Client struct {
	upstream string
	http     *http.Client
}

// New returns a client for upstream (one of the domain.Upstream* names).
// timeout is a transport-level ceiling; callers still pass a context.
func New(upstream string, timeout time.Duration) *Client {
	return &Client{
		upstream: upstream,
		http:     &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient wraps an existing *http.Client (httptest servers).
func NewWithHTTPClient(upstream string, hc *http.Client) *Client {
	return &Client{upstream: upstream, http: hc}
}

// Upstream returns the upstream name used in errors.
func (c *Client) Upstream() string { return c.upstream }

// Do sends req and returns the status code and body. Only transport
// failures are errors here; status handling is left to the caller.
func (c *Client) Do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.transportError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, c.transportError(req.Context(), err)
	}
	return resp.StatusCode, body, nil
}

// DoJSON sends req, classifies non-2xx statuses and decodes the body into out.
func (c *Client) DoJSON(req *http.Request, out any) error {
	status, body, err := c.Do(req)
	if err != nil {
		return err
	}
	if err := StatusError(c.upstream, status, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.Unavailable(c.upstream, "malformed response", err)
	}
	return nil
}

// NewJSONRequest builds a request carrying JSON headers and, when payload
// is non-nil, its encoded body.
func NewJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = strings.NewReader(string(data))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// StatusError maps an HTTP status to a pipeline error; nil for 2xx/3xx.
func StatusError(upstream string, status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return domain.RateLimited(upstream, Snippet(body))
	case status >= 400:
		msg := fmt.Sprintf("HTTP %d", status)
		if s := Snippet(body); s != "" {
			msg += ": " + s
		}
		return domain.Unavailable(upstream, msg, nil)
	}
	return nil
}

// Snippet returns trimmed upstream text short enough to echo to clients.
func Snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.UpstreamTimeout(c.upstream, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.UpstreamTimeout(c.upstream, err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.Unavailable(c.upstream, "request cancelled", err)
	}
	return domain.Unavailable(c.upstream, "transport error", err)
}
