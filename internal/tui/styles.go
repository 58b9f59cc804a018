package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/screenline-dev/screenline/internal/interview"
)

const (
	primaryColor   = "#7C3AED" // Purple
	candidateColor = "#10B981" // Green
	declinedColor  = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
)

var (
	// BoxStyle frames the whole chat screen.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor)).Bold(true)
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor))

	// Speaker labels above each transcript entry.
	BotStyle  = TitleStyle
	UserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(candidateColor)).Bold(true)

	// StatusBarStyle renders the stage of an interview still in progress.
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1)
)

// stageLabels are the status bar names for each stage.
var stageLabels = map[interview.Stage]string{
	interview.StageAwaitingConsent: "Consent",
	interview.StageCollectingInfo:  "Your details",
	interview.StageAskingQuestions: "Technical questions",
	interview.StageCompleted:       "Completed",
	interview.StageDeclined:        "Ended",
}

// terminalStyles color the badge of a finished session.
var terminalStyles = map[interview.Stage]lipgloss.Style{
	interview.StageCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color(candidateColor)).Bold(true),
	interview.StageDeclined:  lipgloss.NewStyle().Foreground(lipgloss.Color(declinedColor)),
}

// stageBadge renders the stage label, colored by outcome.
func stageBadge(s interview.Stage) string {
	if st, ok := terminalStyles[s]; ok {
		return st.Render(stageLabels[s])
	}
	return StatusBarStyle.Render(stageLabels[s])
}
