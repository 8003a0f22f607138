// Package dossier pulls labeled fields out of a model completion that loosely
// follows the archival template (Title / Object Class / Summary / Related SCPs /
// Related Tales). Models do not always honour the template, so each field reports
// whether it was actually found.
package dossier

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnstructured is returned when the completion carries neither a title nor an
// object class line
var ErrUnstructured = errors.New("completion does not follow the dossier template")

// Field is a single extracted value
type Field struct {
	Value string
	OK    bool
}

// Or returns the value when found, fallback otherwise
func (f Field) Or(fallback string) string {
	if f.OK {
		return f.Value
	}
	return fallback
}

// RelatedEntry is one line of the "Related SCPs" list
type RelatedEntry struct {
	Designation string `json:"designation"` // e.g. "SCP-049"
	Reason      string `json:"reason,omitempty"`
}

// RelatedTale is one line of the "Related Tales" list
type RelatedTale struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Extraction holds everything found in a completion
type Extraction struct {
	Title        Field
	ObjectClass  Field
	Summary      Field
	RelatedSCPs  []RelatedEntry
	RelatedTales []RelatedTale
}

var (
	titleLine  = regexp.MustCompile(`Title: (.*)`)
	classLine  = regexp.MustCompile(`Object Class: (.*)`)
	heading    = regexp.MustCompile(`(?m)^\s*(Title|Object Class|Summary|Related SCPs|Related Tales):[ \t]*`)
	entryItem  = regexp.MustCompile(`^\s*\d+[.)]\s*(SCP-\d+)\s*[:\-–]?\s*(.*)$`)
	taleItem   = regexp.MustCompile(`^\s*[*\-]\s*"?([^":]+?)"?\s*(?::\s*(.*))?$`)
	bracketed  = regexp.MustCompile(`^\[(.*)\]$`)
	emphasised = strings.NewReplacer("**", "", "__", "")
)

// Extract parses the completion. The returned Extraction is always usable; the
// error only signals that no template fields were recognised.
func Extract(completion string) (Extraction, error) {
	var ex Extraction

	if m := titleLine.FindStringSubmatch(completion); m != nil {
		ex.Title = field(m[1])
	}
	if m := classLine.FindStringSubmatch(completion); m != nil {
		ex.ObjectClass = field(m[1])
	}

	sections := splitSections(completion)
	if body, ok := sections["Summary"]; ok {
		ex.Summary = field(body)
	}
	if body, ok := sections["Related SCPs"]; ok {
		ex.RelatedSCPs = parseRelatedEntries(body)
	}
	if body, ok := sections["Related Tales"]; ok {
		ex.RelatedTales = parseRelatedTales(body)
	}

	if !ex.Title.OK && !ex.ObjectClass.OK {
		return ex, ErrUnstructured
	}
	return ex, nil
}

func field(raw string) Field {
	v := strings.TrimSpace(raw)
	return Field{Value: v, OK: v != ""}
}

// NormalizeClass strips markup and brackets the model sometimes leaves around a
// class name ("**Keter**", "[Euclid]")
func NormalizeClass(class string) string {
	c := strings.TrimSpace(emphasised.Replace(class))
	if m := bracketed.FindStringSubmatch(c); m != nil {
		c = strings.TrimSpace(m[1])
	}
	return strings.TrimRight(c, ".")
}

// splitSections maps each template heading to the text that follows it up to the
// next heading
func splitSections(text string) map[string]string {
	sections := make(map[string]string)

	locs := heading.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		name := text[loc[2]:loc[3]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := sections[name]; !seen {
			sections[name] = text[loc[1]:end]
		}
	}

	return sections
}

func parseRelatedEntries(body string) []RelatedEntry {
	var entries []RelatedEntry
	for _, line := range strings.Split(body, "\n") {
		m := entryItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, RelatedEntry{
			Designation: m[1],
			Reason:      strings.TrimSpace(m[2]),
		})
	}
	return entries
}

func parseRelatedTales(body string) []RelatedTale {
	var tales []RelatedTale
	for _, line := range strings.Split(body, "\n") {
		m := taleItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		tales = append(tales, RelatedTale{
			Title:       title,
			Description: strings.TrimSpace(m[2]),
		})
	}
	return tales
}
