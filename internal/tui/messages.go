package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/archivist/internal/model"
)

// tickInterval is the progress step period
const tickInterval = 50 * time.Millisecond

// tickMsg advances the progress counter by one percent
type tickMsg struct{}

// lookupDoneMsg carries the reply of an in-flight lookup
type lookupDoneMsg struct {
	dossier *model.Dossier
	err     error
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
