package dossier

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const templated = `Title: The Sculpture
Object Class: Euclid

Summary:
SCP-173 is a concrete statue that moves when unobserved.
Personnel must maintain eye contact at all times.

Related SCPs:
1. SCP-049: Another humanoid anomaly.
2) SCP-3812 - Reality bending.

Related Tales:
* "The Old Man": A tale about SCP-106.
* Shy Guy: Something else.`

func TestExtract_Template(t *testing.T) {
	ex, err := Extract(templated)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if !ex.Title.OK || ex.Title.Value != "The Sculpture" {
		t.Errorf("Title = %+v", ex.Title)
	}
	if !ex.ObjectClass.OK || ex.ObjectClass.Value != "Euclid" {
		t.Errorf("ObjectClass = %+v", ex.ObjectClass)
	}

	wantSummary := "SCP-173 is a concrete statue that moves when unobserved.\nPersonnel must maintain eye contact at all times."
	if ex.Summary.Value != wantSummary {
		t.Errorf("Summary = %q", ex.Summary.Value)
	}

	wantSCPs := []RelatedEntry{
		{Designation: "SCP-049", Reason: "Another humanoid anomaly."},
		{Designation: "SCP-3812", Reason: "Reality bending."},
	}
	if diff := cmp.Diff(wantSCPs, ex.RelatedSCPs); diff != "" {
		t.Errorf("RelatedSCPs mismatch (-want +got):\n%s", diff)
	}

	wantTales := []RelatedTale{
		{Title: "The Old Man", Description: "A tale about SCP-106."},
		{Title: "Shy Guy", Description: "Something else."},
	}
	if diff := cmp.Diff(wantTales, ex.RelatedTales); diff != "" {
		t.Errorf("RelatedTales mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Unstructured(t *testing.T) {
	ex, err := Extract("I'm sorry, I cannot help with that.")
	if !errors.Is(err, ErrUnstructured) {
		t.Fatalf("expected ErrUnstructured, got %v", err)
	}
	if ex.Title.OK || ex.ObjectClass.OK {
		t.Errorf("expected no fields, got %+v", ex)
	}
	if got := ex.Title.Or("Title Unknown"); got != "Title Unknown" {
		t.Errorf("Or() = %q", got)
	}
}

func TestExtract_PartialFields(t *testing.T) {
	ex, err := Extract("Some preamble.\nObject Class: Keter  \nMore text.")
	if err != nil {
		t.Fatalf("expected partial extraction to succeed, got %v", err)
	}
	if ex.Title.OK {
		t.Errorf("Title should be missing, got %+v", ex.Title)
	}
	if ex.ObjectClass.Value != "Keter" {
		t.Errorf("ObjectClass = %q", ex.ObjectClass.Value)
	}
}

func TestExtract_EmptyTitleIsMissing(t *testing.T) {
	ex, _ := Extract("Title:   \nObject Class: Safe")
	if ex.Title.OK {
		t.Errorf("blank title should not count as found: %+v", ex.Title)
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	ex, _ := Extract("Title: First\nTitle: Second")
	if ex.Title.Value != "First" {
		t.Errorf("Title = %q, want First", ex.Title.Value)
	}
}

func TestNormalizeClass(t *testing.T) {
	tests := map[string]string{
		"Keter":       "Keter",
		"**Keter**":   "Keter",
		" [Euclid] ":  "Euclid",
		"Safe.":       "Safe",
		"Neutralised": "Neutralised",
	}

	for in, want := range tests {
		if got := NormalizeClass(in); got != want {
			t.Errorf("NormalizeClass(%q) = %q, want %q", in, got, want)
		}
	}
}
