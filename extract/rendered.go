package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Renderer produces fully rendered HTML for JavaScript-driven pages.
type Renderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
}

// Rendered extracts text from JS-rendered pages: render the document in a
// headless browser, then apply the same tag-stripping and container-selection
// logic as the static strategy.
type Rendered struct {
	renderer Renderer
	markdown bool
	logger   *slog.Logger
}

// NewRendered creates the rendered strategy. A nil renderer signals that
// headless rendering is unavailable in this runtime.
func NewRendered(r Renderer) *Rendered {
	return &Rendered{renderer: r, logger: slog.Default()}
}

// Extract renders the page and extracts title and body text.
func (r *Rendered) Extract(ctx context.Context, url string) (*Result, error) {
	if r.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", ErrRenderingUnavailable)
	}

	raw, err := r.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := parseHTML(raw)
	if err != nil {
		return nil, err
	}
	return &Result{
		Title:     doc.title,
		Body:      doc.body(r.markdown, url),
		SourceURL: url,
	}, nil
}

// Browser renders pages in headless Chrome via rod. The browser is a scoped
// resource: acquired for one rendering attempt and released on every exit
// path, including render failure.
type Browser struct {
	// NavTimeout bounds navigation and capture. Default: 45s.
	NavTimeout time.Duration
	// Stabilize is how long the DOM must stay unchanged before capture,
	// letting late XHR-driven content settle. Default: 1s.
	Stabilize time.Duration
	Logger    *slog.Logger
}

func (b *Browser) defaults() {
	if b.NavTimeout <= 0 {
		b.NavTimeout = 45 * time.Second
	}
	if b.Stabilize <= 0 {
		b.Stabilize = time.Second
	}
	if b.Logger == nil {
		b.Logger = slog.Default()
	}
}

// NewBrowser creates a rod-backed Renderer with default timeouts.
func NewBrowser() *Browser {
	b := &Browser{}
	b.defaults()
	return b
}

// Render launches Chrome, navigates, waits for the page to settle, and
// captures the rendered document.
func (b *Browser) Render(ctx context.Context, pageURL string) ([]byte, error) {
	b.defaults()

	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch chrome: %v", ErrRenderingUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: connect: %v", ErrRenderingUnavailable, err)
	}
	defer func() {
		browser.Close()
		l.Cleanup()
	}()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("render: create page: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, b.NavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("render: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.Logger.Warn("render: wait load timeout", "url", pageURL, "error", err)
	}
	// Best effort: give SPA frameworks a moment to finish painting.
	if err := page.Timeout(10 * time.Second).WaitStable(b.Stabilize); err != nil {
		b.Logger.Debug("render: page did not stabilize", "url", pageURL, "error", err)
	}

	res, err := page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("render: capture dom: %w", err)
	}
	return []byte(res.Value.Str()), nil
}
