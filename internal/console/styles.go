package console

import "github.com/charmbracelet/lipgloss"

// Styles contains styling for the console.
type Styles struct {
	Prompt  lipgloss.Style
	Title   lipgloss.Style
	Success lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF")).Bold(true).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}
