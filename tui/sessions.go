package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"readinghall-dashboard/model"
	"readinghall-dashboard/occupancy"
)

func fetchSessions(api API) func(context.Context) ([]model.Session, error) {
	return func(ctx context.Context) ([]model.Session, error) {
		return api.GetActiveSessions(ctx)
	}
}

func newSessionTable() table.Model {
	columns := []table.Column{
		{Title: "Student", Width: 12},
		{Title: "Name", Width: 22},
		{Title: "Hall", Width: 16},
		{Title: "Seat", Width: 6},
		{Title: "Checked in", Width: 10},
		{Title: "Elapsed", Width: 9},
		{Title: "Method", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63"))
	t.SetStyles(styles)
	return t
}

// sessionRows projects elapsed time against now, so it is called on every
// render rather than stored.
func sessionRows(sessions []model.Session, now time.Time) []table.Row {
	projected := occupancy.ProjectSessions(sessions, now)
	rows := make([]table.Row, 0, len(projected))
	for _, row := range projected {
		checkedIn := "-"
		if row.HasStart {
			checkedIn = row.Session.CheckInTime.Local().Format("15:04")
		}
		rows = append(rows, table.Row{
			row.Session.StudentId,
			row.Session.UserName,
			row.Session.HallName,
			row.Session.SeatNumber,
			checkedIn,
			row.Elapsed,
			row.Session.CheckInMethod,
		})
	}
	return rows
}

func (m appModel) sessionsView() string {
	state := m.sessions.State()
	if !state.Loaded {
		return m.loadingOrError("Loading active sessions", state.Err)
	}
	if len(state.Value) == 0 {
		return hint("No active sessions.")
	}
	t := m.sessionTable
	t.SetRows(sessionRows(state.Value, m.now()))
	return t.View() + "\n" + hint("↑/↓ scroll • durations update every second")
}
