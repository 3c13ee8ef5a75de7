// Package source classifies ingest targets and canonicalizes their URLs.
//
// A target is either a local filesystem path or an http(s) URL. Local paths
// are classified by extension. URLs are classified as PDF first by path
// suffix, and only when that is ambiguous by a lightweight HEAD probe of the
// Content-Type. Probe failures are treated as "not a PDF" and never abort
// classification.
package source

import (
	"context"
	"path/filepath"
	"strings"
)

// Kind is the resolved type of an ingest target.
type Kind string

const (
	KindUnknown   Kind = "unknown"
	KindHTMLURL   Kind = "html-url"
	KindPDFURL    Kind = "pdf-url"
	KindLocalText Kind = "local-text"
	KindLocalPDF  Kind = "local-pdf"
)

// Target is a source URL or filesystem path plus its resolved kind.
// Resolved once per item; immutable afterwards.
type Target struct {
	Raw  string
	Kind Kind
}

// Prober checks a remote Content-Type without downloading the body.
type Prober interface {
	Head(ctx context.Context, url string) (contentType string, err error)
}

// IsURL reports whether s is an http(s) URL rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// textExtensions are local file types treated as plain text articles.
var textExtensions = map[string]bool{
	".txt": true, ".text": true, ".md": true, ".markdown": true,
	".html": true, ".htm": true,
}

// Classify resolves a raw target string to a Target. URLs are normalized
// first, so viewer-style URLs classify by their canonical location. A URL
// whose path ends in .pdf never needs a network call; anything else is
// probed via HEAD when a prober is supplied.
func Classify(ctx context.Context, raw string, probe Prober) Target {
	if IsURL(raw) {
		u := NormalizeURL(raw)
		if hasPDFPath(u) {
			return Target{Raw: u, Kind: KindPDFURL}
		}
		if probe != nil {
			ct, err := probe.Head(ctx, u)
			if err == nil && strings.Contains(strings.ToLower(ct), "application/pdf") {
				return Target{Raw: u, Kind: KindPDFURL}
			}
			// Probe errors fall through: "not a PDF" is the safe default.
		}
		return Target{Raw: u, Kind: KindHTMLURL}
	}

	switch ext := strings.ToLower(filepath.Ext(raw)); {
	case ext == ".pdf":
		return Target{Raw: raw, Kind: KindLocalPDF}
	case textExtensions[ext]:
		return Target{Raw: raw, Kind: KindLocalText}
	}
	return Target{Raw: raw, Kind: KindUnknown}
}

func hasPDFPath(rawURL string) bool {
	// Suffix check on the path only, so query strings don't interfere.
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
