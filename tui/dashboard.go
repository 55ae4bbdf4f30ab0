package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"readinghall-dashboard/model"
	"readinghall-dashboard/occupancy"
)

// recentSessionLimit caps the session preview on the dashboard.
const recentSessionLimit = 5

// dashboardData is fetched as one bundle so the counters, the charts and the
// session preview always come from the same poll.
type dashboardData struct {
	Overview model.OverviewSnapshot
	Usage    model.UsageReport
	Sessions []model.Session
}

func fetchDashboard(api API, usageDays int) func(context.Context) (dashboardData, error) {
	return func(ctx context.Context) (dashboardData, error) {
		var (
			data dashboardData
			wg   sync.WaitGroup
			errs = make([]error, 3)
		)
		wg.Add(3)
		go func() {
			defer wg.Done()
			overview, err := api.GetOverview(ctx)
			data.Overview, errs[0] = overview, err
		}()
		go func() {
			defer wg.Done()
			usage, err := api.GetUsage(ctx, usageDays)
			data.Usage, errs[1] = usage, err
		}()
		go func() {
			defer wg.Done()
			sessions, err := api.GetActiveSessions(ctx)
			data.Sessions, errs[2] = sessions, err
		}()
		wg.Wait()
		if err := errors.Join(errs...); err != nil {
			return dashboardData{}, err
		}
		return data, nil
	}
}

func (m appModel) dashboardView() string {
	state := m.dashboard.State()
	if !state.Loaded {
		return m.loadingOrError("Loading overview", state.Err)
	}
	data := state.Value
	now := m.now()

	counters := occupancy.Counters(data.Overview)
	boxes := make([]string, 0, len(counters))
	for _, counter := range counters {
		boxes = append(boxes, counterStyle.Render(counter.Label+"\n"+counterValueStyle.Render(counter.Value)))
	}

	bar := m.progress.ViewAs(occupancy.OccupancyRatio(data.Overview))
	summary := hint(fmt.Sprintf("Sessions today: %d • Avg duration: %s",
		data.Overview.SessionsToday, occupancy.FormatMinutes(int64(math.Round(data.Overview.AvgDurationMinutes)))))

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		"Occupancy " + bar,
		summary,
		"",
		titleStyle.Render(fmt.Sprintf("Usage • last %d days", m.usageDays)),
		renderUsageChart(occupancy.UsageSeries(data.Usage.Daily)),
	}
	if len(data.Usage.Hourly) > 0 {
		sections = append(sections, "", titleStyle.Render("Check-ins by hour"), renderHourly(occupancy.HourlyDistribution(data.Usage.Hourly)))
	}
	sections = append(sections, "", titleStyle.Render("Active sessions"), renderRecentSessions(data.Sessions, now))
	return strings.Join(sections, "\n")
}

func renderUsageChart(points []occupancy.UsagePoint) string {
	if len(points) == 0 {
		return hint("No usage recorded for this period.")
	}
	maxSessions, labelWidth := 1, 0
	for _, point := range points {
		maxSessions = max(maxSessions, point.Sessions)
		labelWidth = max(labelWidth, len(point.Label))
	}
	const width = 30
	var b strings.Builder
	for i, point := range points {
		filled := max(0, point.Sessions) * width / maxSessions
		if point.Sessions > 0 && filled == 0 {
			filled = 1
		}
		fmt.Fprintf(&b, "%-*s %s %3d  avg %s", labelWidth, point.Label,
			barStyle.Render(strings.Repeat("█", filled))+strings.Repeat(" ", width-filled),
			point.Sessions, occupancy.FormatMinutes(int64(point.AvgDuration)))
		if i < len(points)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// hourAxis labels every sixth hour of a sparkline with one column per hour.
func hourAxis(hours int) string {
	axis := []rune(strings.Repeat(" ", hours))
	for h := 0; h+1 < hours; h += 6 {
		label := fmt.Sprintf("%02d", h)
		copy(axis[h:], []rune(label))
	}
	return string(axis)
}

func renderHourly(points []occupancy.HourPoint) string {
	peak := 0
	for _, point := range points {
		peak = max(peak, point.Sessions)
	}
	var spark strings.Builder
	for _, point := range points {
		if point.Sessions <= 0 || peak == 0 {
			spark.WriteRune(' ')
			continue
		}
		idx := point.Sessions * (len(sparkLevels) - 1) / peak
		spark.WriteRune(sparkLevels[idx])
	}
	return barStyle.Render(spark.String()) + "\n" + hint(hourAxis(len(points)))
}

func renderRecentSessions(sessions []model.Session, now time.Time) string {
	if len(sessions) == 0 {
		return hint("No active sessions.")
	}
	rows := occupancy.ProjectSessions(sessions, now)
	var lines []string
	for i, row := range rows {
		if i == recentSessionLimit {
			lines = append(lines, hint(fmt.Sprintf("… and %d more (press 3)", len(rows)-recentSessionLimit)))
			break
		}
		lines = append(lines, fmt.Sprintf("%-6s %-24s %-12s %s",
			row.Session.SeatNumber, row.Session.UserName, row.Session.HallName, row.Elapsed))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) loadingOrError(title string, err error) string {
	if err != nil {
		return errorStyle.Render(err.Error()) + "\n\n" + hint("Retrying on the next refresh. Press r to retry now.")
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}
