// Package fetch implements the HTTP acquisition path: page fetches, PDF
// downloads, and the lightweight HEAD probe used for classification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTransport is returned for network failures and non-success HTTP statuses.
var ErrTransport = errors.New("fetch: transport failure")

// Config configures the fetch client.
type Config struct {
	// Timeout is the per-request HTTP timeout. Default: 30s.
	Timeout time.Duration
	// MaxBytes caps the response body size. Default: 20MB.
	MaxBytes int64
	// UserAgent sent with every request.
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 20 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "coupure/1.0"
	}
}

// Response is the outcome of a GET.
type Response struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// Client performs HTTP requests with fixed timeouts and a body size cap.
type Client struct {
	http *http.Client
	cfg  Config
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Get retrieves a URL. Non-2xx statuses are reported as transport errors.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: get %s: http %d", ErrTransport, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	return &Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// Head performs a HEAD request and returns the Content-Type without
// downloading the body.
func (c *Client) Head(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: head request: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: head %s: %v", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: head %s: http %d", ErrTransport, url, resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), nil
}
