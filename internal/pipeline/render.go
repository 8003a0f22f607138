package pipeline

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/archivist/internal/annotate"
	"github.com/ppiankov/archivist/internal/dossier"
	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/scp"
)

// Output formats understood by Renderer.Format
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Renderer writes dossiers as JSON, Markdown, HTML or terminal text
type Renderer struct {
	annotator *annotate.Renderer
	baseURL   string
}

// NewRenderer creates a renderer whose links point at baseURL
func NewRenderer(baseURL string) *Renderer {
	if baseURL == "" {
		baseURL = scp.DefaultBaseURL
	}
	return &Renderer{
		annotator: annotate.NewRenderer(baseURL),
		baseURL:   baseURL,
	}
}

// Format renders d in the named format
func (r *Renderer) Format(d *model.Dossier, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return r.Text(d), nil
	case FormatMarkdown, "md":
		return r.Markdown(d), nil
	case FormatHTML:
		return r.HTML(d)
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal dossier: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format: %s (supported: text, markdown, html, json)", format)
	}
}

// Text renders the dossier with plain text references
func (r *Renderer) Text(d *model.Dossier) string {
	var b strings.Builder
	if !d.IsNotice() {
		fmt.Fprintf(&b, "FILE: %s // CLASS: %s\n", strings.ToUpper(d.Metadata.ID), d.Metadata.ObjectClass)
		if d.Title != "" {
			fmt.Fprintf(&b, "TITLE: %s\n", d.Title)
		}
		b.WriteString("\n")
	}
	b.WriteString(annotate.Plain(r.annotator.Render(d.Summary)))
	b.WriteString("\n")
	return b.String()
}

// Markdown renders the dossier as a Markdown document with linked references
func (r *Renderer) Markdown(d *model.Dossier) string {
	var b strings.Builder

	if d.IsNotice() {
		b.WriteString("# Archive Notice\n\n")
		b.WriteString(annotate.Markdown(r.annotator.Render(d.Summary)))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "# %s: %s\n\n", strings.ToUpper(d.Metadata.ID), d.Title)
	fmt.Fprintf(&b, "- **Object Class:** %s\n", d.Metadata.ObjectClass)
	fmt.Fprintf(&b, "- **Containment:** %s\n", model.ContainmentFor(dossier.NormalizeClass(d.Metadata.ObjectClass)).Text)
	if d.SourceURL != "" {
		fmt.Fprintf(&b, "- **Source:** <%s>\n", d.SourceURL)
	}
	if d.GeneratedAt != nil {
		fmt.Fprintf(&b, "- **Generated:** %s", d.GeneratedAt.Format("2006-01-02 15:04 MST"))
		if d.Provider != "" {
			fmt.Fprintf(&b, " by %s", d.Provider)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Dossier\n\n")
	b.WriteString(annotate.Markdown(r.annotator.Render(d.Summary)))
	b.WriteString("\n")

	if len(d.RelatedSCPs) > 0 {
		b.WriteString("\n## Related SCPs\n\n")
		for _, rel := range d.RelatedSCPs {
			fmt.Fprintf(&b, "- [%s](%s)", rel.Designation, r.entryURL(rel.Designation))
			if rel.Reason != "" {
				fmt.Fprintf(&b, ": %s", rel.Reason)
			}
			b.WriteString("\n")
		}
	}

	if len(d.RelatedTales) > 0 {
		b.WriteString("\n## Related Tales\n\n")
		for _, tale := range d.RelatedTales {
			fmt.Fprintf(&b, "- [%s](%s)", tale.Title, scp.TaleURL(r.baseURL, tale.Title))
			if tale.Description != "" {
				fmt.Fprintf(&b, ": %s", tale.Description)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// HTML renders the Markdown document as a standalone HTML page
func (r *Renderer) HTML(d *model.Dossier) (string, error) {
	body, err := annotate.MarkdownToHTML(r.Markdown(d))
	if err != nil {
		return "", err
	}

	title := "Archive Notice"
	if !d.IsNotice() {
		title = strings.ToUpper(d.Metadata.ID) + ": " + d.Title
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// RenderJSON writes the dossier as indented JSON to path
func (r *Renderer) RenderJSON(d *model.Dossier, path string) error {
	return r.renderFile(d, FormatJSON, path)
}

// RenderMarkdown writes the Markdown document to path
func (r *Renderer) RenderMarkdown(d *model.Dossier, path string) error {
	return r.renderFile(d, FormatMarkdown, path)
}

// RenderHTML writes the HTML page to path
func (r *Renderer) RenderHTML(d *model.Dossier, path string) error {
	return r.renderFile(d, FormatHTML, path)
}

// RenderSummary prints a short stdout summary of a batch result
func (r *Renderer) RenderSummary(w io.Writer, query string, d *model.Dossier, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(w, "✗ %-12s %v\n", query, err)
	case d.IsNotice():
		fmt.Fprintf(w, "! %-12s %s\n", query, d.Summary)
	default:
		fmt.Fprintf(w, "✓ %-12s %s // %s // %s\n", query, strings.ToUpper(d.Metadata.ID), d.Metadata.ObjectClass, d.Title)
	}
}

func (r *Renderer) renderFile(d *model.Dossier, format, path string) error {
	out, err := r.Format(d, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) entryURL(designation string) string {
	d, err := scp.Parse(designation)
	if err != nil {
		return r.baseURL
	}
	return d.URL(r.baseURL)
}
