package render

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for scan output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
	AccentColor  = lipgloss.Color("#43BF6D") // Green - counts, locations
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Shared styles for scan output
var (
	// HeaderStyle is for column headers in the result table
	HeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// TypeStyle is for the service-type column
	TypeStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// LocationStyle is for the location column
	LocationStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	// DetailStyle is for secondary fields (USN, server, source)
	DetailStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SummaryStyle is for the trailing count line
	SummaryStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// isTerminal reports whether stdout is attached to a terminal. Piped
// output gets the plain format so it stays grep-friendly.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the usable stdout width, clamped to the supported
// range, or MaxContentWidth when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return MaxContentWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
