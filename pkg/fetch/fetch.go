// Package fetch retrieves published resources over HTTP(S) relative to a
// single base URL. It satisfies the byte-fetch capability the pipeline
// consumes; nothing here knows about blob layout or identity.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a fetch when no other timeout is configured. The
// pipeline itself enforces none, so this is the only clock on a request.
const DefaultTimeout = 30 * time.Second

// ErrFetch reports a failed retrieval: transport error, non-success status,
// or an unreadable response body.
var ErrFetch = errors.New("fetch failed")

// StatusError is a non-success response for a named resource. It matches
// ErrFetch under errors.Is while carrying the status for callers that want it.
type StatusError struct {
	Name       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch failed: status %d for %s", e.StatusCode, e.Name)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFetch
}

// Client fetches resources by name under one base URL.
type Client struct {
	base *url.URL
	hc   *http.Client
}

type Option = func(*Client) error

// WithTimeout overrides DefaultTimeout for all requests from this Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.hc.Timeout = d
		return nil
	}
}

// WithHTTPClient substitutes the underlying HTTP client, for callers that
// need proxy, TLS, or transport control. The client is used as given; apply
// WithTimeout after this option if both are wanted.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("cannot use a nil http client")
		}
		c.hc = hc
		return nil
	}
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}
	c := &Client{
		base: base,
		hc:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Fetch retrieves the named resource and returns its raw bytes. Any response
// other than 200 is a *StatusError; the body and headers of failed responses
// are not interpreted.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(name).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Name: name, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrFetch, err)
	}
	return body, nil
}
