package model

import (
	"time"

	"github.com/ppiankov/archivist/internal/dossier"
)

// Dossier is the API payload for one lookup. Notices (bad input, missing file)
// carry only Summary.
type Dossier struct {
	Title    string    `json:"title,omitempty"`
	Summary  string    `json:"summary"`
	Metadata *Metadata `json:"metadata,omitempty"`

	RelatedSCPs  []dossier.RelatedEntry `json:"related_scps,omitempty"`
	RelatedTales []dossier.RelatedTale  `json:"related_tales,omitempty"`

	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
}

// Metadata identifies the entry and its classification
type Metadata struct {
	ID          string `json:"id"`           // e.g. "scp-173"
	ObjectClass string `json:"object_class"` // As reported by the model
}

// Placeholders used when the completion lacks a field
const (
	UnknownTitle = "Title Unknown"
	UnknownClass = "Classification Unknown"
)

// NoticeDossier wraps a human-readable notice in the payload shape
func NoticeDossier(msg string) *Dossier {
	return &Dossier{Summary: msg}
}

// IsNotice reports whether the dossier is a notice rather than a lookup result
func (d *Dossier) IsNotice() bool {
	return d.Metadata == nil
}

// ObjectClass returns the reported class or "" for notices
func (d *Dossier) ObjectClass() string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata.ObjectClass
}
