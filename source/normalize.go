package source

import (
	"net/url"
	"regexp"
)

// pmcViewerRe matches PMC-style PDF viewer paths: /articles/PMC<id>/pdf/<file>.pdf.
// The viewer path serves a rendering widget with no extractable text; the
// parent article path serves full-text HTML.
var pmcViewerRe = regexp.MustCompile(`^(.*/articles/PMC\d+/)pdf/[^/]+\.pdf/?$`)

// NormalizeURL rewrites known PDF-viewer URL shapes to their canonical
// article location. Normalizing an already-canonical URL is a no-op, so the
// function is idempotent. Unparseable input is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if m := pmcViewerRe.FindStringSubmatch(u.Path); m != nil {
		u.Path = m[1]
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	return raw
}
