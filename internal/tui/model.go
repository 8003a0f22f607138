// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/archivist/internal/annotate"
	"github.com/ppiankov/archivist/internal/client"
	"github.com/ppiankov/archivist/internal/dossier"
	"github.com/ppiankov/archivist/internal/model"
)

const (
	waitCeiling  = 90
	doneProgress = 100
	defaultWidth = 80
)

// LookupFunc resolves a query. Either a remote client or the in-process pipeline serves it.
type LookupFunc func(ctx context.Context, query string) (*model.Dossier, error)

// Model is the terminal state
type Model struct {
	ctx      context.Context
	lookup   LookupFunc
	renderer *annotate.Renderer

	input  textinput.Model
	bar    progress.Model
	styles Styles
	width  int

	loading   bool
	ticking   bool
	percent   int
	reply     *lookupDoneMsg // received but not yet shown
	dossier   *model.Dossier
	errMsg    string
	nightMode bool
}

// Option configures a Model
type Option func(*Model)

// WithNightMode starts in the dark theme
func WithNightMode(on bool) Option {
	return func(m *Model) { m.setNightMode(on) }
}

// WithBaseURL points generated links at another wiki mirror
func WithBaseURL(baseURL string) Option {
	return func(m *Model) { m.renderer = annotate.NewRenderer(baseURL) }
}

// New creates the model. ctx bounds every lookup started from it.
func New(ctx context.Context, lookup LookupFunc, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "SCP-"
	ti.Placeholder = "Enter designation..."
	ti.CharLimit = 32
	ti.Focus()

	m := Model{
		ctx:      ctx,
		lookup:   lookup,
		renderer: annotate.NewRenderer(""),
		input:    ti,
		bar:      progress.New(progress.WithoutPercentage()),
		width:    defaultWidth,
	}
	m.setNightMode(false)
	for _, opt := range opts {
		opt(&m)
	}
	m.resize(m.width)
	return m
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, KeyEsc:
			return m, tea.Quit
		case KeyNightMode:
			m.setNightMode(!m.nightMode)
			return m, nil
		case KeyEnter:
			return m.submit()
		}
		if m.loading {
			return m, nil
		}

	case tickMsg:
		return m.advance()

	case lookupDoneMsg:
		if !m.loading {
			return m, nil
		}
		m.reply = &msg
		return m, m.startTicking()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a lookup for the current input. The field is cleared either way.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	query := m.input.Value()
	m.input.Reset()
	if query == "" {
		return m, nil
	}

	m.loading = true
	m.percent = 0
	m.reply = nil
	m.dossier = nil
	m.errMsg = ""

	return m, tea.Batch(m.startTicking(), m.fetch(query))
}

func (m Model) fetch(query string) tea.Cmd {
	ctx, lookup := m.ctx, m.lookup
	return func() tea.Msg {
		d, err := lookup(ctx, query)
		return lookupDoneMsg{dossier: d, err: err}
	}
}

// startTicking schedules a tick unless one is already pending
func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

// advance steps the counter: up to 90 while waiting, then to 100 once the reply
// is in, after which the reply is shown
func (m Model) advance() (tea.Model, tea.Cmd) {
	m.ticking = false
	if !m.loading {
		return m, nil
	}

	if m.reply == nil {
		if m.percent < waitCeiling {
			m.percent++
		}
		if m.percent >= waitCeiling {
			return m, nil
		}
		return m, m.startTicking()
	}

	if m.percent >= doneProgress {
		m.apply(*m.reply)
		return m, nil
	}
	m.percent++
	return m, m.startTicking()
}

func (m *Model) apply(reply lookupDoneMsg) {
	m.percent = doneProgress
	m.loading = false
	m.reply = nil
	if reply.err != nil {
		m.errMsg = client.RetrievalMessage
		return
	}
	m.dossier = reply.dossier
}

func (m *Model) setNightMode(on bool) {
	m.nightMode = on
	theme := LightTheme()
	if on {
		theme = DarkTheme()
	}
	m.styles = NewStyles(theme)
	m.input.PromptStyle = m.styles.Prompt
	m.input.TextStyle = m.styles.Input
	m.bar.FullColor = string(theme.Accent)
	m.bar.EmptyColor = string(theme.Muted)
}

func (m *Model) resize(width int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width
	m.bar.Width = max(width-4, 10)
	m.input.Width = max(width-8, 10)
}

// View renders the screen
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.header())
	sb.WriteString(m.divider())
	sb.WriteString("  " + m.input.View() + "\n")
	sb.WriteString(m.divider())
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(m.loadingView())
	case m.errMsg != "":
		sb.WriteString(m.styles.Error.Render("ERROR: "+m.errMsg) + "\n")
	case m.dossier != nil:
		sb.WriteString(m.dossierView())
	}

	sb.WriteString("\n")
	sb.WriteString(m.divider())
	sb.WriteString(m.footer())
	return sb.String()
}

func (m Model) header() string {
	return m.styles.Title.Render("  SCP FOUNDATION") + "\n" +
		m.styles.Subtitle.Render("  SECURE, CONTAIN, PROTECT") + "\n" +
		m.styles.Tagline.Render("  AI Archival System [v3.1] | Accessing database via secure terminal. Enter designation...") + "\n"
}

func (m Model) divider() string {
	return m.styles.Divider.Render(strings.Repeat("═", m.width)) + "\n"
}

func (m Model) loadingView() string {
	label := m.styles.Loading.Width(m.width).Render(fmt.Sprintf("ACCESSING ARCHIVES... [%d%%]", m.percent))
	return label + "\n  " + m.bar.ViewAs(float64(m.percent)/doneProgress) + "\n"
}

func (m Model) dossierView() string {
	var sb strings.Builder

	class := dossier.NormalizeClass(m.dossier.ObjectClass())
	status := model.ContainmentFor(class)
	sb.WriteString(containmentStyle(status.Color, status.TextColor, status.Pulse, m.width).Render(status.Text) + "\n\n")

	if !m.dossier.IsNotice() {
		line := fmt.Sprintf("FILE: %s // CLASS: %s", strings.ToUpper(m.dossier.Metadata.ID), m.dossier.Metadata.ObjectClass)
		sb.WriteString(m.styles.FileLine.Width(m.width).Render(line) + "\n\n")
	}

	segments := m.renderer.Render(m.dossier.Summary)
	body := annotate.Terminal(segments, m.styles.Link)
	sb.WriteString(m.styles.Body.Width(m.width).Render(body) + "\n")
	return sb.String()
}

func (m Model) footer() string {
	state := "OFF"
	if m.nightMode {
		state = "ON"
	}
	notice := m.styles.Footer.Render("PROPERTY OF THE SCP FOUNDATION // UNAUTHORIZED ACCESS PROHIBITED")
	toggle := m.styles.Toggle.Render("NIGHT MODE: " + state + " (ctrl+n)")
	return lipgloss.JoinHorizontal(lipgloss.Center, notice, "  ", toggle) + "\n"
}

// Run starts the program on the terminal and blocks until the user quits
func Run(ctx context.Context, lookup LookupFunc, opts ...Option) error {
	p := tea.NewProgram(New(ctx, lookup, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
