package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the lipgloss styles used by the browser views.
type Theme struct {
	TitleStyle        lipgloss.Style
	HeaderStyle       lipgloss.Style
	NormalItemStyle   lipgloss.Style
	SelectedItemStyle lipgloss.Style
	FolderStyle       lipgloss.Style
	FileStyle         lipgloss.Style
	StatusBarStyle    lipgloss.Style
	CommandStyle      lipgloss.Style
	HelpStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
}

// DefaultTheme returns the standard color scheme.
func DefaultTheme() *Theme {
	return &Theme{
		TitleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1),

		HeaderStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true),

		NormalItemStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		SelectedItemStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true),

		FolderStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),

		FileStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		StatusBarStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		CommandStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),

		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),

		ErrorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}
