package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	TitleDone     lipgloss.Color

	// Progress bar
	ProgressFill  lipgloss.Color
	ProgressEmpty lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	TitleDone:     lipgloss.Color("#636E72"), // Gray

	ProgressFill:  lipgloss.Color("#00B894"),
	ProgressEmpty: lipgloss.Color("#3D4548"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderSummary  lipgloss.Style
	ProgressFill   lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ProgressLabel  lipgloss.Style
	EmptyState     lipgloss.Style
	EmptyStateHint lipgloss.Style

	// Task list
	TaskTitle         lipgloss.Style
	TaskTitleSelected lipgloss.Style
	TaskTitleDone     lipgloss.Style
	TaskID            lipgloss.Style
	Favorite          lipgloss.Style
	CheckDone         lipgloss.Style
	CheckOpen         lipgloss.Style

	SelectionIndicator lipgloss.Style

	// Help
	Help lipgloss.Style

	// Footer
	Footer lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style
	DialogHint   lipgloss.Style
	Counter      lipgloss.Style
	CounterFull  lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderSummary: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		ProgressFill: lipgloss.NewStyle().
			Foreground(Colors.ProgressFill),

		ProgressEmpty: lipgloss.NewStyle().
			Foreground(Colors.ProgressEmpty),

		ProgressLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		EmptyState: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleNormal).
			MarginTop(1),

		EmptyStateHint: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		TaskTitleDone: lipgloss.NewStyle().
			Foreground(Colors.TitleDone).
			Strikethrough(true),

		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Favorite: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		CheckDone: lipgloss.NewStyle().
			Foreground(Colors.Success),

		CheckOpen: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		SelectionIndicator: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected),

		Help: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		DialogPrompt: lipgloss.NewStyle(),

		DialogHint: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Counter: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		CounterFull: lipgloss.NewStyle().
			Foreground(Colors.Warning).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// progressBarWidth is the number of cells in the header progress bar.
const progressBarWidth = 20

// ProgressBar renders a bar filled to percent (0-100).
func (s Styles) ProgressBar(percent int) string {
	percent = max(0, min(percent, 100))
	filled := percent * progressBarWidth / 100
	return s.ProgressFill.Render(strings.Repeat("█", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
}

// CheckIcon returns the completion marker.
func CheckIcon(completed bool) string {
	if completed {
		return "✓"
	}
	return "○"
}

// FavoriteIcon returns the favorite marker.
func FavoriteIcon(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}
