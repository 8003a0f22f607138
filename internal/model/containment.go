package model

import "strings"

// ContainmentStatus is the banner shown above a dossier for its object class
type ContainmentStatus struct {
	Class     string `json:"class"`      // Normalized class key
	Text      string `json:"text"`       // Banner text
	Color     string `json:"color"`      // Banner background (hex)
	TextColor string `json:"text_color"` // Banner foreground (hex)
	Pulse     bool   `json:"pulse"`      // Whether the banner should blink
}

var containmentStatuses = map[string]ContainmentStatus{
	"safe":        {Class: "safe", Text: "CONTAINMENT STABLE", Color: "#22c55e", TextColor: "#ffffff"},
	"euclid":      {Class: "euclid", Text: "CONTAINMENT UNPREDICTABLE", Color: "#eab308", TextColor: "#ffffff", Pulse: true},
	"keter":       {Class: "keter", Text: "CONTAINMENT CRITICAL", Color: "#dc2626", TextColor: "#ffffff", Pulse: true},
	"thaumiel":    {Class: "thaumiel", Text: "COVERT CLASS - THAUMIEL", Color: "#000000", TextColor: "#e5e7eb"},
	"apollyon":    {Class: "apollyon", Text: "CONTAINMENT FAILURE IMMINENT", Color: "#7f1d1d", TextColor: "#ffffff", Pulse: true},
	"neutralised": {Class: "neutralised", Text: "OBJECT NEUTRALISED", Color: "#e5e7eb", TextColor: "#000000"},
	"explained":   {Class: "explained", Text: "ANOMALY EXPLAINED", Color: "#e5e7eb", TextColor: "#000000"},
	"unknown":     {Class: "unknown", Text: "STATUS UNKNOWN", Color: "#6b7280", TextColor: "#ffffff"},
}

// ContainmentFor maps an object class (any case) to its banner; unrecognised
// classes get the "unknown" banner
func ContainmentFor(objectClass string) ContainmentStatus {
	key := strings.ToLower(strings.TrimSpace(objectClass))
	if key == "neutralized" {
		key = "neutralised"
	}
	if status, ok := containmentStatuses[key]; ok {
		return status
	}
	return containmentStatuses["unknown"]
}
