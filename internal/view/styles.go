package view

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles used by the viewer.
var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#565f89")).
			Padding(0, 1)

	englishFocusStyle = paneStyle.
				BorderForeground(lipgloss.Color("#7aa2f7"))

	pictureFocusStyle = paneStyle.
				BorderForeground(lipgloss.Color("#bb9af7"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	lineNoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	keywordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	diagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e0af68"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)

// paneFrame is the width and height a pane's border and padding take.
const (
	paneFrameW = 4
	paneFrameH = 2
)
