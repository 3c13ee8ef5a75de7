package extract

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// titleFromFilename derives a fallback title from a file path: the filename
// stem with separators replaced by spaces, title-cased.
func titleFromFilename(p string) string {
	stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	return titleCaseStem(stem)
}

// titleFromURL derives a fallback title from the URL's path filename.
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	base := path.Base(u.Path)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		return rawURL
	}
	return titleCaseStem(stem)
}

func titleCaseStem(stem string) string {
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.Join(strings.Fields(stem), " ")
	return titleCaser.String(stem)
}
