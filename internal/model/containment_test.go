package model

import "testing"

func TestContainmentFor(t *testing.T) {
	tests := []struct {
		class     string
		wantText  string
		wantPulse bool
	}{
		{"Safe", "CONTAINMENT STABLE", false},
		{"euclid", "CONTAINMENT UNPREDICTABLE", true},
		{" KETER ", "CONTAINMENT CRITICAL", true},
		{"Thaumiel", "COVERT CLASS - THAUMIEL", false},
		{"Apollyon", "CONTAINMENT FAILURE IMMINENT", true},
		{"Neutralized", "OBJECT NEUTRALISED", false},
		{"Explained", "ANOMALY EXPLAINED", false},
		{"Classification Unknown", "STATUS UNKNOWN", false},
		{"", "STATUS UNKNOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got := ContainmentFor(tt.class)
			if got.Text != tt.wantText {
				t.Errorf("ContainmentFor(%q).Text = %q, want %q", tt.class, got.Text, tt.wantText)
			}
			if got.Pulse != tt.wantPulse {
				t.Errorf("ContainmentFor(%q).Pulse = %v, want %v", tt.class, got.Pulse, tt.wantPulse)
			}
		})
	}
}

func TestDossier_IsNotice(t *testing.T) {
	notice := NoticeDossier("DATA CORRUPTED")
	if !notice.IsNotice() {
		t.Error("expected notice dossier")
	}
	if notice.ObjectClass() != "" {
		t.Errorf("notice should have no class, got %q", notice.ObjectClass())
	}

	d := &Dossier{Summary: "x", Metadata: &Metadata{ID: "scp-173", ObjectClass: "Euclid"}}
	if d.IsNotice() {
		t.Error("expected lookup dossier")
	}
	if d.ObjectClass() != "Euclid" {
		t.Errorf("ObjectClass() = %q", d.ObjectClass())
	}
}
