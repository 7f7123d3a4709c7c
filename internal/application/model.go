// Package application implements the terminal paste box: a text area with a
// live delimiter status line that hands the parsed rows back on submit.
package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/JonMunkholm/PasteImport/internal/tabular"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Parser is the part of core.Service the paste box needs.
type Parser interface {
	Detect(ctx context.Context, text, override string) (core.Detection, error)
	Rows(ctx context.Context, text, override string, hasHeader bool) (core.Detection, []tabular.Row, error)
}

/* ----------------------------------------
	STYLES
---------------------------------------- */

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
)

// tabMarker stands in for tab characters inside the text area, which would
// otherwise expand them to spaces. A literal marker in the input is held as
// markerEscape, a private-use rune, so it survives the round trip.
const (
	tabMarker    = "⇥"
	markerEscape = "\uE000"
)

var (
	toInput   = strings.NewReplacer(tabMarker, markerEscape, "\t", tabMarker)
	fromInput = strings.NewReplacer(tabMarker, "\t", markerEscape, tabMarker)
)

// delimiterChoices are cycled with ctrl+t.
var delimiterChoices = []string{"auto", "comma", "tab", "semicolon", "pipe"}

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

// detectedMsg carries a detection result. seq drops results for text that
// has since changed.
type detectedMsg struct {
	seq       int
	detection core.Detection
	err       error
}

/* ----------------------------------------
	MODEL
---------------------------------------- */

// Model is the bubbletea model of the paste box.
type Model struct {
	parser Parser
	input  textarea.Model

	choice    int
	hasHeader bool

	seq       int
	detection core.Detection
	err       error

	rows      []tabular.Row
	submitted bool
}

// NewModel returns a focused, empty paste box.
func NewModel(p Parser) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste rows copied from a spreadsheet or text file..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.Focus()

	return Model{
		parser:    p,
		input:     ta,
		detection: core.Detection{Empty: true},
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Text returns the pasted text with tabs restored.
func (m Model) Text() string {
	return fromInput.Replace(m.input.Value())
}

// SetText replaces the contents and schedules detection.
func (m *Model) SetText(s string) tea.Cmd {
	m.input.SetValue(toInput.Replace(s))
	return m.redetect()
}

// Override returns the selected delimiter choice.
func (m Model) Override() string {
	return delimiterChoices[m.choice]
}

// Submitted reports whether the user confirmed the paste.
func (m Model) Submitted() bool {
	return m.submitted
}

// Rows returns the parsed rows after a successful submit.
func (m Model) Rows() []tabular.Row {
	return m.rows
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.SetWidth(max(20, msg.Width-2))
		m.input.SetHeight(max(5, msg.Height-7))
		return m, nil

	case detectedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.detection, m.err = msg.detection, msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m.submit()
		case "ctrl+t":
			m.choice = (m.choice + 1) % len(delimiterChoices)
			return m, m.redetect()
		case "ctrl+o":
			m.hasHeader = !m.hasHeader
			return m, nil
		}
		return m.edit(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// edit forwards a key to the text area, keeping tabs intact, and re-runs
// detection when the text changed.
func (m Model) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()

	var cmd tea.Cmd
	switch {
	case msg.Type == tea.KeyTab:
		m.input.InsertString(tabMarker)
	case msg.Type == tea.KeyRunes && strings.ContainsAny(string(msg.Runes), "\t"+tabMarker):
		m.input.InsertString(toInput.Replace(string(msg.Runes)))
	default:
		m.input, cmd = m.input.Update(msg)
	}

	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.redetect())
}

func (m *Model) redetect() tea.Cmd {
	m.seq++
	return m.detectCmd()
}

func (m Model) detectCmd() tea.Cmd {
	seq, text, override := m.seq, m.Text(), m.Override()
	parser := m.parser
	return func() tea.Msg {
		d, err := parser.Detect(context.Background(), text, override)
		return detectedMsg{seq: seq, detection: d, err: err}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	_, rows, err := m.parser.Rows(context.Background(), m.Text(), m.Override(), m.hasHeader)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.rows = rows
	m.submitted = true
	return m, tea.Quit
}

/* ----------------------------------------
	VIEW
---------------------------------------- */

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Paste Import"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
	case m.detection.Empty:
		b.WriteString(helpStyle.Render("Paste tabular text to detect its delimiter"))
	default:
		b.WriteString(statusStyle.Render("✓ " + m.detection.Status()))
	}
	b.WriteString("\n")

	header := "no"
	if m.hasHeader {
		header = "yes"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("delimiter: %s  header: %s", m.Override(), header)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+s submit  ctrl+t delimiter  ctrl+o header  esc quit"))
	b.WriteString("\n")

	return b.String()
}
