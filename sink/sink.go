// Package sink submits extracted documents to the ingest endpoint.
//
// The sink is a plain authenticated JSON POST. It never retries: failure
// policy (skip, abort, pace) belongs to the caller.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSubmission indicates the endpoint rejected or failed a submission.
var ErrSubmission = errors.New("sink: submission failed")

// maxErrorBody caps how much of a rejection body is kept for the error.
const maxErrorBody = 4096

// defaultTimeout covers chunking and embedding on the far side, which can
// take a while for large documents.
const defaultTimeout = 120 * time.Second

// Payload is one document submission.
type Payload struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Category  string `json:"category,omitempty"`
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	Content   string `json:"content"`
}

// Receipt is the endpoint's acknowledgement of a stored document.
type Receipt struct {
	ChunksIngested int `json:"chunks_ingested"`
	TotalTokens    int `json:"total_tokens"`
}

// Client talks to one ingest endpoint with one shared secret.
type Client struct {
	endpoint string
	secret   string
	hc       *http.Client
}

// Option adjusts a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests
// and custom timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a Client for the given endpoint and bearer secret.
func New(endpoint, secret string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		secret:   secret,
		hc:       &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit POSTs one payload and returns the endpoint's receipt. Any non-2xx
// status wraps ErrSubmission and carries the status plus a trimmed response
// body, so batch callers can log the reason without retrying here.
func (c *Client) Submit(ctx context.Context, p *Payload) (*Receipt, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("sink: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSubmission, resp.StatusCode,
			strings.TrimSpace(string(reason)))
	}

	var rcpt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&rcpt); err != nil {
		return nil, fmt.Errorf("%w: decode receipt: %v", ErrSubmission, err)
	}
	return &rcpt, nil
}
