package extract

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/coupure/fetch"
)

// Static extracts text from server-rendered HTML pages: one GET, boilerplate
// removal, container selection, visible text with line breaks preserved.
// The page title comes from the title element when present.
type Static struct {
	fetcher  *fetch.Client
	markdown bool
	logger   *slog.Logger
}

// NewStatic creates the static HTML strategy.
func NewStatic(fetcher *fetch.Client) *Static {
	return &Static{fetcher: fetcher, logger: slog.Default()}
}

// Extract fetches the URL and extracts title and body text.
func (s *Static) Extract(ctx context.Context, url string) (*Result, error) {
	resp, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return nil, err
	}

	body := doc.body(s.markdown, url)
	s.logger.Debug("extract: static", "url", url, "chars", len(body))

	return &Result{
		Title:     doc.title,
		Body:      body,
		SourceURL: url,
	}, nil
}
