package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// boilerplateSelector lists the non-content markup removed before the
// primary container is selected.
const boilerplateSelector = "script, style, nav, footer, header, noscript"

// containerPriority is the selection order for the primary content container.
var containerPriority = []string{"article", "main", "body"}

// htmlDocument holds a parsed page after boilerplate removal.
type htmlDocument struct {
	title     string
	selection *goquery.Selection
}

// parseHTML strips boilerplate markup and selects the primary content
// container: a semantic article, else main, else the full body.
func parseHTML(raw []byte) (*htmlDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrExtraction, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(boilerplateSelector).Remove()

	sel := doc.Selection
	for _, container := range containerPriority {
		if s := doc.Find(container).First(); s.Length() > 0 {
			sel = s
			break
		}
	}
	return &htmlDocument{title: title, selection: sel}, nil
}

// textLines collects the visible text of the selected container, one text
// node per line, preserving document order.
func (d *htmlDocument) textLines() string {
	var sb strings.Builder
	for _, n := range d.selection.Nodes {
		collectLines(&sb, n)
	}
	return strings.TrimSpace(sb.String())
}

func collectLines(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLines(sb, c)
	}
}

// mdConverter renders HTML to commonmark. Shared by the static and rendered
// strategies when markdown mode is on.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// markdownBody converts the selected container to markdown. If conversion
// fails or produces empty output, the plain-text body is returned instead.
func (d *htmlDocument) markdownBody(sourceURL string) string {
	fallback := d.textLines()
	rawHTML, err := goquery.OuterHtml(d.selection)
	if err != nil || rawHTML == "" {
		return fallback
	}
	result, err := mdConverter.ConvertString(rawHTML, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}

// htmlBody returns the body in the configured mode.
func (d *htmlDocument) body(markdown bool, sourceURL string) string {
	if markdown {
		return d.markdownBody(sourceURL)
	}
	return d.textLines()
}
