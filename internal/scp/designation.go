// Package scp parses archive designations and builds wiki URLs for them.
package scp

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultBaseURL is the public wiki that hosts entries and tales
const DefaultBaseURL = "https://scp-wiki.wikidot.com"

var (
	// ErrEmptyQuery is returned when the query is empty
	ErrEmptyQuery = errors.New("query is required")

	// ErrNoDesignation is returned when the query carries no digit run
	ErrNoDesignation = errors.New("no numeric designation in query")
)

var queryPattern = regexp.MustCompile(`(?i)(?:scp[\s-]*)?(\d+)`)

// Designation is the numeric part of an entry name exactly as entered (e.g. "49", "3812")
type Designation struct {
	Digits string
}

// Parse extracts the first designation from a free-form query such as
// "173", "SCP-173" or "scp 049"
func Parse(query string) (Designation, error) {
	if query == "" {
		return Designation{}, ErrEmptyQuery
	}

	m := queryPattern.FindStringSubmatch(query)
	if m == nil {
		return Designation{}, ErrNoDesignation
	}

	return Designation{Digits: m[1]}, nil
}

// Padded returns the digits left-padded with zeros to at least three characters.
// Designations of 1000 and above already have four or more digits and stay as-is.
func (d Designation) Padded() string {
	return Pad(d.Digits)
}

// ID returns the response identifier, e.g. "scp-49"
func (d Designation) ID() string {
	return "scp-" + d.Digits
}

// String returns the display name, e.g. "SCP-49"
func (d Designation) String() string {
	return "SCP-" + d.Digits
}

// URL returns the entry URL on the given wiki
func (d Designation) URL(baseURL string) string {
	return EntryURL(baseURL, d.Digits)
}

// Pad left-pads a digit string with zeros to at least three characters
func Pad(digits string) string {
	if len(digits) >= 3 {
		return digits
	}
	return strings.Repeat("0", 3-len(digits)) + digits
}

// EntryURL builds the wiki URL for an entry designation
func EntryURL(baseURL, digits string) string {
	return strings.TrimSuffix(baseURL, "/") + "/scp-" + Pad(digits)
}

var taleSlugReplacer = strings.NewReplacer(
	" ", "-",
	"?", "",
	":", "",
	"!", "",
	"'", "",
	".", "",
)

// TaleSlug converts a tale title to its wiki page name
func TaleSlug(title string) string {
	return taleSlugReplacer.Replace(strings.ToLower(title))
}

// TaleURL builds the wiki URL for a tale title
func TaleURL(baseURL, title string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + TaleSlug(title)
}
