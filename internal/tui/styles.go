package tui

import "github.com/charmbracelet/lipgloss"

// Theme is one of the two terminal palettes
type Theme struct {
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	Header        lipgloss.Color
	Accent        lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Highlight     lipgloss.Color
	HighlightText lipgloss.Color
	IsDark        bool
}

// LightTheme is the default paper-and-ink palette
func LightTheme() Theme {
	return Theme{
		Background:    lipgloss.Color("#f4f1ea"),
		Foreground:    lipgloss.Color("#1f1f1f"),
		Header:        lipgloss.Color("#111111"),
		Accent:        lipgloss.Color("#b91c1c"),
		Muted:         lipgloss.Color("#6b7280"),
		Border:        lipgloss.Color("#1f1f1f"),
		Highlight:     lipgloss.Color("#1f1f1f"),
		HighlightText: lipgloss.Color("#f4f1ea"),
	}
}

// DarkTheme is the night-mode phosphor palette
func DarkTheme() Theme {
	return Theme{
		Background:    lipgloss.Color("#0b0f0b"),
		Foreground:    lipgloss.Color("#33ff66"),
		Header:        lipgloss.Color("#66ff99"),
		Accent:        lipgloss.Color("#ff4444"),
		Muted:         lipgloss.Color("#4b5563"),
		Border:        lipgloss.Color("#33ff66"),
		Highlight:     lipgloss.Color("#33ff66"),
		HighlightText: lipgloss.Color("#0b0f0b"),
		IsDark:        true,
	}
}

// Styles holds the rendered components for a theme
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Tagline  lipgloss.Style
	Divider  lipgloss.Style

	Prompt lipgloss.Style
	Input  lipgloss.Style

	Loading  lipgloss.Style
	Error    lipgloss.Style
	FileLine lipgloss.Style
	Body     lipgloss.Style
	Link     lipgloss.Style

	Footer lipgloss.Style
	Toggle lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Header).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Header),

		Tagline: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Header).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Loading: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Align(lipgloss.Center),

		Error: lipgloss.NewStyle().
			Foreground(theme.Accent).
			PaddingLeft(2),

		FileLine: lipgloss.NewStyle().
			Background(theme.Highlight).
			Foreground(theme.HighlightText).
			Bold(true).
			PaddingLeft(2),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2),

		Link: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Underline(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(2),

		Toggle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// containmentStyle renders a full-width banner in the status colours
func containmentStyle(bg, fg string, pulse bool, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Bold(true).
		Blink(pulse).
		Width(width).
		Align(lipgloss.Center)
}
