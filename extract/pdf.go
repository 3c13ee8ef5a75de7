package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF extracts text from local PDF documents page by page. Pages yielding no
// text are skipped without error; surviving pages are joined with a blank
// line in page order. Title falls back to the filename.
type PDF struct{}

// Extract parses the PDF at path.
func (p *PDF) Extract(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrExtraction, path, err)
	}
	defer f.Close()

	pages, err := pdfPages(f)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, path)
	}
	return &Result{
		Title: titleFromFilename(path),
		Body:  strings.Join(pages, "\n\n"),
	}, nil
}

// pdfPages extracts per-page text from a PDF stream, in page order, dropping
// pages without text.
func pdfPages(rs io.ReadSeeker) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf: %v", ErrExtraction, err)
	}

	var pages []string
	for nr := 1; nr <= pctx.PageCount; nr++ {
		r, err := pdfcpu.ExtractPageContent(pctx, nr)
		if err != nil {
			// A page whose content stream cannot be read yields no text;
			// that is not fatal for the document.
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		if text := textFromContentStream(data); text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

// pdfLiteralRe matches PDF string literals, including escaped parentheses.
var pdfLiteralRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// textFromContentStream scans PDF content stream operators for shown text.
// Tj, TJ, and ' show string literals; T* moves to the next line; Td/TD
// reposition, which separates words.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFLiteral(m[1]))
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}
	}

	return collapsePageText(sb.String())
}

// decodePDFLiteral resolves backslash escapes, including octal codes.
func decodePDFLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c >= '0' && c <= '7' {
				val := int(c - '0')
				for d := 0; d < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; d++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

// collapsePageText normalizes whitespace in one page's text and drops
// non-printable runes.
func collapsePageText(text string) string {
	var sb strings.Builder
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !space && sb.Len() > 0 {
				sb.WriteByte(' ')
				space = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(sb.String())
}
