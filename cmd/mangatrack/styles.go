package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"mangatrack/internal/domain"
)

// Color palette
var (
	accent    = lipgloss.Color("#E5A00D")
	dimGray   = lipgloss.Color("#6B7280")
	green     = lipgloss.Color("#10B981")
	red       = lipgloss.Color("#EF4444")
	blue      = lipgloss.Color("#3B82F6")
	lightGray = lipgloss.Color("#9CA3AF")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(accent)
	dimStyle     = lipgloss.NewStyle().Foreground(dimGray)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	readingStyle = lipgloss.NewStyle().Foreground(blue)
	plannedStyle = lipgloss.NewStyle().Foreground(lightGray)
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// styled applies style only when stdout is a terminal, so piped output
// stays plain.
func styled(style lipgloss.Style, s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return style.Render(s)
}

func styledStatus(status domain.ReadingStatus) string {
	switch status {
	case domain.StatusReading:
		return styled(readingStyle, status.String())
	case domain.StatusCompleted:
		return styled(successStyle, status.String())
	default:
		return styled(plannedStyle, status.String())
	}
}
