package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/coupure/fetch"
)

// pdfMagic is the signature every PDF payload starts with.
var pdfMagic = []byte("%PDF-")

// Download fetches a remote document and classifies it by actual payload —
// declared Content-Type or magic bytes — rather than trusting the URL shape.
// Real PDFs are parsed page by page; anything else degrades to the same
// container-selection logic used for static HTML.
type Download struct {
	fetcher  *fetch.Client
	markdown bool
	logger   *slog.Logger
}

// Extract downloads and extracts the document at rawURL.
func (d *Download) Extract(ctx context.Context, rawURL string) (*Result, error) {
	resp, err := d.fetcher.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if isPDFPayload(resp.ContentType, resp.Body) {
		pages, err := pdfPages(bytes.NewReader(resp.Body))
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyContent, rawURL)
		}
		return &Result{
			Title:     titleFromURL(rawURL),
			Body:      strings.Join(pages, "\n\n"),
			SourceURL: rawURL,
		}, nil
	}

	// The URL promised a PDF but the payload is something else, usually an
	// HTML viewer or landing page. Extract it as HTML.
	d.logger.Debug("extract: download is not a pdf, extracting as html",
		"url", rawURL, "content_type", resp.ContentType)
	doc, err := parseHTML(resp.Body)
	if err != nil {
		return nil, err
	}
	title := doc.title
	if title == "" {
		title = titleFromURL(rawURL)
	}
	return &Result{
		Title:     title,
		Body:      doc.body(d.markdown, rawURL),
		SourceURL: rawURL,
	}, nil
}

func isPDFPayload(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, pdfMagic)
}
