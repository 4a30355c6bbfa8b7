package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the chrome styles around the list view.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Title     lipgloss.Style
	Status    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Focused   lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	return Styles{
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#9ca3af")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#4f46e5")),
		Title:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4f46e5")),
	}
}
