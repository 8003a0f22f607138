package annotate

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
)

// markdown keeps line breaks of the source text (the summary is pre-wrapped)
var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Plain returns the text with links dropped (identical to Join)
func Plain(segments []Segment) string {
	return Join(segments)
}

// Markdown renders links as inline Markdown links and leaves text untouched
func Markdown(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if !s.IsLink() {
			b.WriteString(s.Text)
			continue
		}
		fmt.Fprintf(&b, "[%s](%s)", markdownEscaper.Replace(s.Text), s.URL)
	}
	return b.String()
}

// HTML renders the Markdown form of the segments to an HTML fragment
func HTML(segments []Segment) (string, error) {
	return MarkdownToHTML(Markdown(segments))
}

// MarkdownToHTML converts a Markdown document with hard line breaks
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders links as OSC 8 hyperlinks styled with linkStyle. Terminals that
// do not understand OSC 8 show the styled display text only.
func Terminal(segments []Segment, linkStyle lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segments {
		if !s.IsLink() {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(Hyperlink(s.URL, linkStyle.Render(s.Text)))
	}
	return b.String()
}

// Hyperlink wraps text in an OSC 8 escape sequence pointing at url
func Hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}
