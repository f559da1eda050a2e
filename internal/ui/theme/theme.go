package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, taken from the web UI gradient.
var (
	Primary   = lipgloss.Color("#6A82FB") // Periwinkle
	Secondary = lipgloss.Color("#5A53E0") // Indigo
	Accent    = lipgloss.Color("#FC5C7D") // Pink
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Questions
var (
	QuestionNumber = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Question = lipgloss.NewStyle().
			Foreground(Text)
)

// Notices
var (
	NoticeSuccess = lipgloss.NewStyle().
			Foreground(Success)

	NoticeWarning = lipgloss.NewStyle().
			Foreground(Warning)

	NoticeError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	Spinner = lipgloss.NewStyle().
		Foreground(Secondary)

	Prompt = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
)
