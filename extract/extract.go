// Package extract implements the tiered extraction strategy set.
//
// Every strategy satisfies the same capability: extract(target) -> Result.
// Tiers are ordered strictly by ascending cost and reached through explicit,
// measurable thresholds:
//
//	static fetch  — one HTTP GET plus HTML container selection
//	PDF parse     — pdfcpu page-by-page text extraction
//	headless render — Chrome via rod, only when static output falls below
//	                  MinContentChars
//
// The Pipeline dispatches on the classified source kind and owns the
// escalation decision, so each tier stays independently substitutable and
// testable without a live network or browser.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/hazyhaar/coupure/fetch"
	"github.com/hazyhaar/coupure/source"
)

// MinContentChars is the sufficiency threshold for static HTML extraction.
// A shorter body signals a JavaScript-rendered page and escalates to the
// headless render tier.
const MinContentChars = 200

var (
	// ErrExtraction is returned when a parser fails on malformed input.
	ErrExtraction = errors.New("extract: malformed input")

	// ErrEmptyContent is returned when extraction succeeded but yielded no
	// usable text after trimming.
	ErrEmptyContent = errors.New("extract: no usable text")

	// ErrRenderingUnavailable is returned when the headless render fallback
	// is required but not available in the runtime environment.
	ErrRenderingUnavailable = errors.New("extract: headless rendering unavailable")
)

// Result is the output of exactly one extraction strategy for one target.
type Result struct {
	Title     string
	Body      string
	SourceURL string
}

// Extractor is the capability every strategy implements.
type Extractor interface {
	Extract(ctx context.Context, target string) (*Result, error)
}

// Pipeline dispatches a classified target to the right strategy and applies
// the static→rendered escalation for HTML URLs.
type Pipeline struct {
	static   *Static
	rendered *Rendered
	pdf      *PDF
	download *Download
	text     Text
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRenderer supplies the headless renderer used for JS-driven pages.
// Without one, escalation fails with ErrRenderingUnavailable.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.rendered = NewRendered(r) }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMarkdown switches HTML-derived bodies to markdown rendering with a
// plain-text fallback.
func WithMarkdown() Option {
	return func(p *Pipeline) { p.static.markdown = true }
}

// New creates a Pipeline over the given fetch client.
func New(fetcher *fetch.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		static:   NewStatic(fetcher),
		rendered: NewRendered(nil),
		pdf:      &PDF{},
		download: &Download{fetcher: fetcher},
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	p.static.logger = p.logger
	p.rendered.logger = p.logger
	p.rendered.markdown = p.static.markdown
	p.download.logger = p.logger
	p.download.markdown = p.static.markdown
	return p
}

// Extract runs the strategy matching the target's kind. For HTML URLs the
// rendered fallback is invoked exactly once when the static body falls below
// MinContentChars.
func (p *Pipeline) Extract(ctx context.Context, t source.Target) (*Result, error) {
	switch t.Kind {
	case source.KindLocalPDF:
		return p.pdf.Extract(ctx, t.Raw)
	case source.KindLocalText:
		return p.text.Extract(ctx, t.Raw)
	case source.KindPDFURL:
		return p.download.Extract(ctx, t.Raw)
	case source.KindHTMLURL:
		res, err := p.static.Extract(ctx, t.Raw)
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(res.Body) < MinContentChars {
			p.logger.Info("extract: static body below threshold, escalating to render",
				"url", t.Raw, "chars", utf8.RuneCountInString(res.Body))
			if res, err = p.rendered.Extract(ctx, t.Raw); err != nil {
				return nil, err
			}
		}
		if res.Title == "" {
			// Pages without a title element still need one for submission.
			res.Title = titleFromURL(t.Raw)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported target %q", ErrExtraction, t.Raw)
	}
}
