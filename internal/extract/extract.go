package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/yomogi/wikidump/internal/model"
)

// Content region selectors, tried in order. mw-parser-output is the
// article body wrapper on modern MediaWiki skins; mw-content-text is the
// older wrapper that still exists on legacy skins and some wiki farms.
const (
	primarySelector  = "div.mw-parser-output"
	fallbackSelector = "div#mw-content-text"
)

// stripSelector matches the substructures removed before text extraction.
// They carry navigation, styling, or media chrome rather than article prose.
const stripSelector = "script, style, nav, table.infobox, div.toc, #toc, figure, aside, .navbox"

// blockTags are elements whose boundaries become line breaks in the
// flattened text, so headings, paragraphs, and list items each land on
// their own line.
var blockTags = map[string]struct{}{
	"p":          {},
	"div":        {},
	"section":    {},
	"article":    {},
	"header":     {},
	"footer":     {},
	"h1":         {},
	"h2":         {},
	"h3":         {},
	"h4":         {},
	"h5":         {},
	"h6":         {},
	"li":         {},
	"ul":         {},
	"ol":         {},
	"dl":         {},
	"dt":         {},
	"dd":         {},
	"table":      {},
	"tr":         {},
	"caption":    {},
	"blockquote": {},
	"pre":        {},
	"figure":     {},
	"figcaption": {},
}

// ScopeFunc reports whether a resolved absolute URL should be kept in a
// page's link list. The crawler passes the policy filter's scope check.
type ScopeFunc func(string) bool

// Extract parses one fetched page and returns its article text and
// in-scope links. sourceURL is the page's own URL (after redirects) and
// is the base for resolving relative hrefs.
//
// Pages without a recognizable content region return ErrNoContentRegion;
// unparseable input returns ErrMalformed. Both mean "skip this page".
func Extract(body []byte, sourceURL string, scope ScopeFunc) (*model.Page, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse source URL %q: %w", sourceURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	region := doc.Find(primarySelector).First()
	if region.Length() == 0 {
		region = doc.Find(fallbackSelector).First()
	}
	if region.Length() == 0 {
		return nil, ErrNoContentRegion
	}

	// Link scan runs on the untouched region. Stripping happens after,
	// so links inside navboxes and infoboxes still feed discovery.
	links := collectLinks(region, base, scope)

	region.Find(stripSelector).Remove()

	return &model.Page{
		URL:   sourceURL,
		Title: pageTitle(doc),
		Text:  Normalize(flatten(region)),
		Links: links,
	}, nil
}

// collectLinks gathers every in-scope link in the region in document
// order. Duplicates are kept; the frontier deduplicates.
func collectLinks(region *goquery.Selection, base *url.URL, scope ScopeFunc) []string {
	var links []string
	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved := resolveLink(base, href)
		if resolved == "" {
			return
		}
		if scope == nil || scope(resolved) {
			links = append(links, resolved)
		}
	})
	return links
}

// resolveLink turns an href into an absolute, fragment-free URL.
// It returns "" for hrefs that can never lead to an article: script and
// contact pseudo-schemes and same-page fragment anchors.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// flatten walks the region's nodes and renders their text content with a
// line break at every block boundary. The output still contains raw
// whitespace; Normalize cleans it up.
func flatten(region *goquery.Selection) string {
	var b strings.Builder
	for _, node := range region.Nodes {
		flattenNode(node, &b)
	}
	return b.String()
}

func flattenNode(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
		_, block := blockTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			flattenNode(c, b)
		}
		if block {
			b.WriteByte('\n')
		}
	}
}

// pageTitle returns the article title: the first-heading element when
// present, else the <title> text. Informational only.
func pageTitle(doc *goquery.Document) string {
	if h1 := doc.Find("h1#firstHeading").First(); h1.Length() > 0 {
		if title := collapseSpace(h1.Text()); title != "" {
			return title
		}
	}
	return collapseSpace(doc.Find("title").First().Text())
}

// collapseSpace reduces a string to a single line with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Normalize canonicalizes extracted text: NFC form, every line trimmed,
// interior whitespace runs collapsed to one space, empty lines dropped,
// lines joined with single newlines.
//
// Normalize is idempotent: applying it to its own output returns the
// output unchanged. Stored files can therefore be re-normalized safely.
func Normalize(s string) string {
	s = norm.NFC.String(s)

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
