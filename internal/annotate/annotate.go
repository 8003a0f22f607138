// Package annotate turns plain summary text into an ordered list of text and link
// segments. Entry references ("SCP-173") and bulleted tale references (`* "Title"`)
// become links to the wiki; every other character is kept verbatim, so joining the
// segment texts always reproduces the input.
package annotate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/archivist/internal/scp"
)

// Kind classifies a segment
type Kind string

const (
	KindText  Kind = "text"  // Verbatim text
	KindEntry Kind = "entry" // Link to an entry page
	KindTale  Kind = "tale"  // Link to a tale page
)

// Segment is one unit of annotated output
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`          // Display text, always a verbatim slice of the input
	URL  string `json:"url,omitempty"` // Link target (empty for text segments)
	Key  string `json:"key"`           // Unique within one Render result
}

// IsLink reports whether the segment carries a link target
func (s Segment) IsLink() bool {
	return s.Kind != KindText
}

var (
	entryPattern = regexp.MustCompile(`SCP-(\d+)`)
	talePattern  = regexp.MustCompile(`(\* ")([^"]+)(")`)
)

// Renderer annotates text against a particular wiki
type Renderer struct {
	baseURL string
}

// NewRenderer creates a renderer that links to baseURL
func NewRenderer(baseURL string) *Renderer {
	if baseURL == "" {
		baseURL = scp.DefaultBaseURL
	}
	return &Renderer{baseURL: strings.TrimSuffix(baseURL, "/")}
}

var defaultRenderer = NewRenderer(scp.DefaultBaseURL)

// Render annotates text against the public wiki
func Render(text string) []Segment {
	return defaultRenderer.Render(text)
}

// Render splits text into segments.
//
// The entry pass runs first over the whole text and yields alternating
// plain/match fragments (match fragments sit at odd positions). Each plain fragment
// is then split by the tale pattern, whose three capture groups produce blocks of
// four positions: 0 plain, 1 `* "`, 2 title, 3 `"`. Positions 1 and 3 are folded
// into the tale link and never emitted on their own.
func (r *Renderer) Render(text string) []Segment {
	var segments []Segment

	for i, part := range splitWithMatches(entryPattern, text) {
		if i%2 == 1 {
			digits := strings.SplitN(part, "-", 2)[1]
			segments = append(segments, Segment{
				Kind: KindEntry,
				Text: part,
				URL:  scp.EntryURL(r.baseURL, digits),
				Key:  fmt.Sprintf("scp-%d", i),
			})
			continue
		}

		for j, sub := range splitWithGroups(talePattern, part) {
			switch j % 4 {
			case 0:
				if sub == "" {
					continue
				}
				segments = append(segments, Segment{
					Kind: KindText,
					Text: sub,
					Key:  fmt.Sprintf("text-%d-%d", i, j),
				})
			case 2:
				segments = append(segments, Segment{
					Kind: KindTale,
					Text: `* "` + sub + `"`,
					URL:  scp.TaleURL(r.baseURL, sub),
					Key:  fmt.Sprintf("tale-%d-%d", i, j),
				})
			}
		}
	}

	return segments
}

// splitWithMatches splits s around every match of re, keeping each whole match as
// its own element: [plain, match, plain, match, ..., plain]
func splitWithMatches(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringIndex(s, -1)
	parts := make([]string, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		parts = append(parts, s[last:m[0]], s[m[0]:m[1]])
		last = m[1]
	}
	return append(parts, s[last:])
}

// splitWithGroups splits s around every match of re, emitting the captured groups
// (not the whole match) between plain fragments: [plain, g1, g2, ..., plain, ...]
func splitWithGroups(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	groups := re.NumSubexp()
	parts := make([]string, 0, len(matches)*(groups+1)+1)

	last := 0
	for _, m := range matches {
		parts = append(parts, s[last:m[0]])
		for g := 1; g <= groups; g++ {
			start, end := m[2*g], m[2*g+1]
			if start < 0 {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, s[start:end])
		}
		last = m[1]
	}
	return append(parts, s[last:])
}

// Join concatenates the display text of all segments
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Links returns only the link segments, in order
func Links(segments []Segment) []Segment {
	var links []Segment
	for _, s := range segments {
		if s.IsLink() {
			links = append(links, s)
		}
	}
	return links
}
