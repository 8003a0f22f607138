package archive

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultMaxChars is the default text budget sent to the model
const DefaultMaxChars = 8000

// Adapter reduces a site's HTML to the article text
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter understands the given page
	CanHandle(pageURL string, contentType string) bool

	// ExtractText returns the article text, whitespace collapsed
	ExtractText(htmlContent string) (string, error)
}

// Registry picks an adapter per page
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewWikidotAdapter())
	registry.generic = NewGenericAdapter()
	return registry
}

// Register adds an adapter ahead of the generic fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first adapter that can handle the page, or the generic one
func (r *Registry) FindAdapter(pageURL string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(pageURL, contentType) {
			return adapter
		}
	}
	return r.generic
}

// WikidotAdapter reads the #page-content block of wikidot-hosted pages
type WikidotAdapter struct {
	BaseAdapter
}

// NewWikidotAdapter creates a wikidot adapter
func NewWikidotAdapter() *WikidotAdapter {
	return &WikidotAdapter{}
}

// Name returns the adapter name
func (a *WikidotAdapter) Name() string {
	return "wikidot"
}

// CanHandle matches *.wikidot.com hosts
func (a *WikidotAdapter) CanHandle(pageURL string, contentType string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "wikidot.com" || strings.HasSuffix(host, ".wikidot.com")
}

// ExtractText returns the text of #page-content, or "" when the page has none
func (a *WikidotAdapter) ExtractText(htmlContent string) (string, error) {
	doc, err := a.ParseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	content := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && a.GetAttribute(n, "id") == "page-content"
	})
	if content == nil {
		return "", nil
	}

	return CollapseWhitespace(a.NodeText(content)), nil
}

// GenericAdapter is the fallback: the whole <body>
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(pageURL string, contentType string) bool {
	return true
}

// ExtractText returns the text of <body>
func (a *GenericAdapter) ExtractText(htmlContent string) (string, error) {
	doc, err := a.ParseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	body := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if body == nil {
		body = doc
	}

	return CollapseWhitespace(a.NodeText(body)), nil
}

// BaseAdapter provides HTML helpers shared by adapters
type BaseAdapter struct{}

// ParseHTML parses HTML string into a node tree
func (b *BaseAdapter) ParseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "table": true, "ul": true, "ol": true, "hr": true,
}

// NodeText concatenates the text under n. Block elements are separated by a
// space so adjacent paragraphs don't run together.
func (b *BaseAdapter) NodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			return
		case html.ElementNode:
			if skippedElements[node.Data] {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode && blockElements[node.Data] {
			buf.WriteByte(' ')
		}
	}

	walk(n)
	return buf.String()
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node matching a predicate, depth first
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// CollapseWhitespace replaces every whitespace run with one space and trims the ends
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate keeps at most max runes of s; max <= 0 disables truncation
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
