package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	staleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Padding(0, 1)

	counterStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Width(18)
	counterValueStyle = lipgloss.NewStyle().Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	seatFreeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatOccupiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	seatEmptyStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle       = lipgloss.NewStyle().Reverse(true)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

func hint(text string) string {
	return faintStyle.Render(text)
}
