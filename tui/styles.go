package tui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Current  lipgloss.Style
	Info     lipgloss.Style
	Error    lipgloss.Style
	Field    lipgloss.Style
	Focused  lipgloss.Style
}

func DefaultStyles() Styles {
	purple := lipgloss.Color("99")
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(purple).Bold(true),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(purple),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Current:  lipgloss.NewStyle().Foreground(purple).Bold(true),
		Info: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1),
		Field:   lipgloss.NewStyle().Width(14),
		Focused: lipgloss.NewStyle().Foreground(purple).Bold(true),
	}
}
