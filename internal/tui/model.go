package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenline-dev/screenline/internal/interview"
)

// Model is the interview chat screen. It owns one session at a time and
// never advances it while a turn is in flight.
type Model struct {
	machine *interview.Machine
	session *interview.Session
	stage   interview.Stage
	title   string

	lines    []chatLine
	busy     bool
	recordID string
	failed   bool

	keys     KeyMap
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
}

// NewModel creates a Model with a fresh session and its opening message.
func NewModel(m *interview.Machine, title string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your reply... (Enter to send)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = DefaultKeyMap.NewLine
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))

	model := Model{
		machine:  m,
		title:    title,
		keys:     DefaultKeyMap,
		textarea: ta,
		viewport: viewport.New(72, 16),
		spinner:  sp,
		width:    80,
		height:   24,
	}
	model.resize(80, 24)
	model.startSession()
	return model
}

// Init returns the initial command for the chat view.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Restart):
			if m.busy {
				return m, nil
			}
			m.startSession()
			return m, nil

		case key.Matches(msg, m.keys.Send):
			if m.busy {
				return m, nil
			}
			input := m.textarea.Value()
			m.textarea.Reset()
			if strings.TrimSpace(input) != "" {
				m.lines = append(m.lines, chatLine{Role: interview.RoleUser, Text: strings.TrimSpace(input)})
			}
			m.busy = true
			m.refresh()
			return m, tea.Batch(m.advance(input), m.spinner.Tick)
		}

	case TurnMsg:
		if msg.SessionID != m.session.ID {
			return m, nil
		}
		m.busy = false
		m.stage = msg.Turn.Stage
		m.lines = append(m.lines, chatLine{Role: interview.RoleBot, Text: msg.Turn.Reply})
		if msg.Turn.RecordID != "" {
			m.recordID = msg.Turn.RecordID
		}
		if msg.Turn.Err != nil {
			m.failed = true
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil
	}

	if !m.busy {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// advance runs one turn off the UI goroutine.
func (m Model) advance(input string) tea.Cmd {
	machine, session := m.machine, m.session
	return func() tea.Msg {
		turn := machine.Advance(context.Background(), session, input)
		return TurnMsg{SessionID: session.ID, Turn: turn}
	}
}

// startSession discards the current session and opens a new one.
func (m *Model) startSession() {
	m.session = m.machine.NewSession()
	m.stage = m.session.Stage
	m.recordID = ""
	m.failed = false
	m.lines = []chatLine{{Role: interview.RoleBot, Text: m.machine.Start(m.session)}}
	m.textarea.Reset()
	m.refresh()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	// Reserve space for: header (2 lines), status (2 lines), textarea (5 lines), footer (2 lines), box (4 lines)
	vpHeight := height - 15
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := width - 8
	if vpWidth < 20 {
		vpWidth = 20
	}

	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(vpWidth)
}

// refresh re-renders the transcript and scrolls to the newest message.
func (m *Model) refresh() {
	m.viewport.SetContent(formatLines(m.lines, m.viewport.Width))
	m.viewport.GotoBottom()
}

// View renders the chat view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(DimStyle.Render(m.textarea.View()))
	} else {
		b.WriteString(m.textarea.View())
	}
	b.WriteString("\n\n")

	b.WriteString(DimStyle.Render(m.keys.helpLine()))

	return BoxStyle.Width(m.width - 4).Render(b.String())
}

func (m Model) statusLine() string {
	switch {
	case m.busy:
		return fmt.Sprintf("%s Thinking...", m.spinner.View())
	case m.failed:
		return ErrorStyle.Render("This session stopped because of an error. Press Ctrl+R to start over.")
	case m.stage == interview.StageCompleted && m.recordID != "":
		return stageBadge(m.stage) + DimStyle.Render(" · responses saved")
	case m.stage.Terminal():
		return stageBadge(m.stage) + DimStyle.Render(" · Ctrl+R starts a new session")
	}
	return stageBadge(m.stage)
}

// formatLines renders the transcript for the viewport.
func formatLines(lines []chatLine, width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, l := range lines {
		if l.Role == interview.RoleUser {
			b.WriteString(UserStyle.Render("You"))
		} else {
			b.WriteString(BotStyle.Render("Interviewer"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(l.Text))
		if i < len(lines)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
