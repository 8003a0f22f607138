package tui

// Key bindings handled in Update
const (
	KeyCtrlC     = "ctrl+c"
	KeyEsc       = "esc"
	KeyEnter     = "enter"
	KeyNightMode = "ctrl+n"
)
