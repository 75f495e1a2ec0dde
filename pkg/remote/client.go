// Package remote talks to the FocusFlow REST API. It holds no state of its
// own beyond the HTTP client: the token comes from a TokenSource and every
// response is handed straight back to the caller.
package remote

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

	"tableflip.dev/focusflow/pkg/logging"
)

var (
	// ErrUnauthorized means the server rejected the session. The session
	// has already been cleared when this is returned.
	ErrUnauthorized = errors.New("remote: session expired")
	// ErrTimeout means the request did not complete within the client timeout.
	ErrTimeout = errors.New("remote: request timed out")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("remote: %s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}

// TokenSource supplies the bearer token and forgets it when the server
// says it is no longer valid.
type TokenSource interface {
	Token() string
	Clear()
}

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Client issues authenticated requests against one API base URL.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    *slog.Logger

	// OnUnauthorized runs after a protected call was rejected and the
	// session cleared.
	OnUnauthorized func()
}

// New returns a client for base, e.g. http://localhost:8081/api.
func New(base string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		log:    logging.Remote(),
	}
}

// BaseURL is the API root.
func (c *Client) BaseURL() string {
	return c.base
}

func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth/")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil && !isAuthPath(path) {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("request timed out", "method", method, "path", path, "after", time.Since(start))
			return fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(path) {
		if c.tokens != nil {
			c.tokens.Clear()
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func escape(id string) string {
	return url.PathEscape(id)
}
