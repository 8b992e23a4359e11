package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette colours for console output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

// consoleStyles holds the styles applied to command output.
// Every style is plain when output is not a terminal.
type consoleStyles struct {
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newConsoleStyles(colour bool) consoleStyles {
	if !colour {
		plain := lipgloss.NewStyle()
		return consoleStyles{Heading: plain, Muted: plain, Success: plain, Warning: plain, Error: plain}
	}
	return consoleStyles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Muted:   lipgloss.NewStyle().Foreground(colourMuted),
		Success: lipgloss.NewStyle().Foreground(colourSuccess),
		Warning: lipgloss.NewStyle().Foreground(colourWarning),
		Error:   lipgloss.NewStyle().Foreground(colourError),
	}
}

var console = newConsoleStyles(isTerminal(os.Stdout))

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func styleHeading(s string) string { return console.Heading.Render(s) }
func styleMuted(s string) string   { return console.Muted.Render(s) }
func styleSuccess(s string) string { return console.Success.Render(s) }
func styleWarning(s string) string { return console.Warning.Render(s) }
func styleError(s string) string   { return console.Error.Render(s) }
