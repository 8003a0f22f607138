package scp

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"173", "173"},
		{"SCP-173", "173"},
		{"scp 049", "049"},
		{"Scp--3812", "3812"},
		{"tell me about 682 please", "682"},
		{"SCP-001 and SCP-002", "001"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.query, err)
			}
			if d.Digits != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.query, d.Digits, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	// Whitespace is a query without a designation, not a missing one
	if _, err := Parse("   "); !errors.Is(err, ErrNoDesignation) {
		t.Errorf("expected ErrNoDesignation for whitespace, got %v", err)
	}
	if _, err := Parse("the sculpture"); !errors.Is(err, ErrNoDesignation) {
		t.Errorf("expected ErrNoDesignation, got %v", err)
	}
}

func TestPad(t *testing.T) {
	tests := map[string]string{
		"1":     "001",
		"49":    "049",
		"173":   "173",
		"049":   "049",
		"999":   "999",
		"1000":  "1000",
		"3812":  "3812",
		"10000": "10000",
	}

	for in, want := range tests {
		if got := Pad(in); got != want {
			t.Errorf("Pad(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDesignation_Names(t *testing.T) {
	d := Designation{Digits: "49"}

	if d.ID() != "scp-49" {
		t.Errorf("ID() = %q", d.ID())
	}
	if d.String() != "SCP-49" {
		t.Errorf("String() = %q", d.String())
	}
	if got := d.URL(DefaultBaseURL + "/"); got != "https://scp-wiki.wikidot.com/scp-049" {
		t.Errorf("URL() = %q", got)
	}
}

func TestTaleURL(t *testing.T) {
	tests := map[string]string{
		"The Old Man":             "https://scp-wiki.wikidot.com/the-old-man",
		"Who's Afraid? Not I!":    "https://scp-wiki.wikidot.com/whos-afraid-not-i",
		"Log of Anomalous Items.": "https://scp-wiki.wikidot.com/log-of-anomalous-items",
		"Part 2: Dr. Bright":      "https://scp-wiki.wikidot.com/part-2-dr-bright",
	}

	for title, want := range tests {
		if got := TaleURL(DefaultBaseURL, title); got != want {
			t.Errorf("TaleURL(%q) = %q, want %q", title, got, want)
		}
	}
}
