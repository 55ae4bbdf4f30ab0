package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"readinghall-dashboard/model"
	"readinghall-dashboard/occupancy"
	"readinghall-dashboard/poll"
)

type appView int

const (
	viewDashboard appView = iota
	viewSeats
	viewSessions
)

func (v appView) String() string {
	switch v {
	case viewDashboard:
		return "Dashboard"
	case viewSeats:
		return "Seats"
	case viewSessions:
		return "Sessions"
	}
	return "Unknown"
}

// API is the part of the reading hall client the dashboard polls.
type API interface {
	GetOverview(ctx context.Context) (model.OverviewSnapshot, error)
	GetUsage(ctx context.Context, days int) (model.UsageReport, error)
	GetActiveSessions(ctx context.Context) ([]model.Session, error)
	GetHalls(ctx context.Context) ([]model.Hall, error)
	GetHallSeats(ctx context.Context, hallID string) ([]model.Seat, error)
}

type Options struct {
	API    API
	Logger *zap.Logger

	// Interval drives the dashboard and sessions views. The seat view only
	// fetches on activation, hall change and manual refresh.
	Interval    time.Duration
	Rows        int
	Columns     int
	DefaultHall string
	UsageDays   int

	Context context.Context
	Now     func() time.Time
	Tick    poll.TickFunc
}

type appModel struct {
	api  API
	log  *zap.Logger
	now  func() time.Time
	tick poll.TickFunc

	view   appView
	width  int
	height int

	usageDays   int
	defaultHall string

	dashboard *poll.Controller[dashboardData]
	sessions  *poll.Controller[[]model.Session]
	halls     *poll.Controller[[]model.Hall]
	seats     *poll.Controller[[]model.Seat]

	hallID      string
	hallList    list.Model
	pickingHall bool
	seatPanel   *seatPanel

	sessionTable table.Model
	progress     progress.Model
	spinner      spinner.Model
}

type clockMsg time.Time

func New(opts Options) tea.Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tick == nil {
		opts.Tick = tea.Tick
	}
	if opts.Interval == 0 {
		opts.Interval = poll.DefaultInterval
	}
	if opts.Rows <= 0 {
		opts.Rows = occupancy.DefaultRows
	}
	if opts.Columns <= 0 {
		opts.Columns = occupancy.DefaultColumns
	}
	if opts.UsageDays <= 0 {
		opts.UsageDays = 7
	}
	if opts.DefaultHall == "" {
		opts.DefaultHall = occupancy.FallbackHallID
	}

	pollConfig := func(name string, interval time.Duration) poll.Config {
		return poll.Config{
			Name:     name,
			Interval: interval,
			Logger:   opts.Logger,
			Context:  opts.Context,
			Now:      opts.Now,
			Tick:     opts.Tick,
		}
	}

	m := appModel{
		api:         opts.API,
		log:         opts.Logger,
		now:         opts.Now,
		tick:        opts.Tick,
		view:        viewDashboard,
		usageDays:   opts.UsageDays,
		defaultHall: opts.DefaultHall,
		seatPanel:   newSeatPanel(opts.Rows, opts.Columns),
	}
	m.dashboard = poll.New(pollConfig("dashboard", opts.Interval), fetchDashboard(opts.API, opts.UsageDays))
	m.sessions = poll.New(pollConfig("sessions", opts.Interval), fetchSessions(opts.API))
	m.halls = poll.New(pollConfig("halls", 0), fetchHalls(opts.API))
	m.seats = poll.New(pollConfig("seats", 0), fetchSeats(opts.API, ""))
	m.seats.OnApply(m.seatPanel.apply)

	m.hallList = newList("Select Hall")
	m.sessionTable = newSessionTable()
	m.progress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.enterView(viewDashboard), m.clockCmd())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		// fallthrough to component update

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading() {
			return m, cmd
		}
		return m, nil

	case clockMsg:
		m.syncSessionRows()
		return m, m.clockCmd()
	}

	if cmd, ok := m.dashboard.Update(msg); ok {
		return m, cmd
	}
	if cmd, ok := m.sessions.Update(msg); ok {
		m.syncSessionRows()
		return m, cmd
	}
	if cmd, ok := m.halls.Update(msg); ok {
		m.hallList.SetItems(buildHallItems(m.halls.State().Value))
		hallCmd := m.syncHall()
		return m, tea.Batch(cmd, hallCmd)
	}
	if cmd, ok := m.seats.Update(msg); ok {
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case m.view == viewSeats && m.pickingHall:
		m.hallList, cmd = m.hallList.Update(msg)
	case m.view == viewSessions:
		m.sessionTable, cmd = m.sessionTable.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.view {
	case viewDashboard:
		body = m.dashboardView()
	case viewSeats:
		body = m.seatsView()
	case viewSessions:
		body = m.sessionsView()
	}
	return header + "\n\n" + body
}

func (m appModel) headerView() string {
	title := titleStyle.Render("Reading Hall Dashboard")

	tabs := make([]string, 0, 3)
	for i, v := range []appView{viewDashboard, viewSeats, viewSessions} {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}

	status := m.statusLine()
	hints := "ctrl+c quit • 1/2/3 or tab switch view • r refresh"
	switch {
	case m.view == viewSeats && m.pickingHall:
		hints = "ctrl+c quit • enter select hall • esc cancel • type to filter"
	case m.view == viewSeats:
		hints = "ctrl+c quit • arrows move • enter inspect • esc clear • p pick hall • [ ] previous/next hall • r refresh"
	}
	return title + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + status + "\n" + hint(hints)
}

// statusLine reports freshness of the resource the current view shows.
func (m appModel) statusLine() string {
	var (
		updated time.Time
		stale   bool
		err     error
	)
	now := m.now()
	switch m.view {
	case viewDashboard:
		s := m.dashboard.State()
		updated, stale, err = s.UpdatedAt, s.Stale(now), s.Err
	case viewSessions:
		s := m.sessions.State()
		updated, stale, err = s.UpdatedAt, s.Stale(now), s.Err
	case viewSeats:
		s := m.seats.State()
		h := m.halls.State()
		updated, stale, err = s.UpdatedAt, s.Stale(now) || h.Stale(now), s.Err
		if err == nil {
			err = h.Err
		}
	}

	var parts []string
	if m.isLoading() {
		parts = append(parts, m.spinner.View())
	}
	if !updated.IsZero() {
		parts = append(parts, hint("updated "+updated.Local().Format("15:04:05")))
	}
	if stale {
		label := "stale"
		if err != nil {
			label = "stale • refresh failed"
		}
		parts = append(parts, staleStyle.Render(label))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	if m.view == viewSeats && m.pickingHall {
		switch msg.String() {
		case "esc":
			if m.hallList.SettingFilter() || m.hallList.IsFiltered() {
				m.hallList.ResetFilter()
				return m, nil, true
			}
			m.pickingHall = false
			return m, nil, true
		case "enter":
			if m.hallList.SettingFilter() {
				return m, nil, false
			}
			item, ok := m.hallList.SelectedItem().(hallItem)
			m.pickingHall = false
			if !ok {
				return m, nil, true
			}
			cmd := m.selectHall(item.hall.Id.String())
			return m, cmd, true
		}
		return m, nil, false
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "1":
		cmd = m.switchView(viewDashboard)
	case "2":
		cmd = m.switchView(viewSeats)
	case "3":
		cmd = m.switchView(viewSessions)
	case "tab":
		cmd = m.switchView((m.view + 1) % 3)
	case "shift+tab":
		cmd = m.switchView((m.view + 2) % 3)
	case "r":
		cmd = m.refresh()
	default:
		return m.handleSeatKey(msg)
	}
	return m, cmd, true
}

func (m appModel) handleSeatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.view != viewSeats {
		return m, nil, false
	}
	switch msg.String() {
	case "up", "k":
		m.seatPanel.move(-1, 0)
	case "down", "j":
		m.seatPanel.move(1, 0)
	case "left", "h":
		m.seatPanel.move(0, -1)
	case "right", "l":
		m.seatPanel.move(0, 1)
	case "enter", " ":
		m.seatPanel.selectCursor(m.now())
	case "esc":
		m.seatPanel.selection.Clear()
	case "p":
		if len(m.hallList.Items()) > 0 {
			m.pickingHall = true
			if idx := occupancy.HallIndex(m.halls.State().Value, m.hallID); idx >= 0 {
				m.hallList.Select(idx)
			}
		}
	case "[":
		cmd := m.cycleHall(-1)
		return m, cmd, true
	case "]":
		cmd := m.cycleHall(1)
		return m, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// switchView tears down the controllers of the current view before
// activating the next one.
func (m *appModel) switchView(next appView) tea.Cmd {
	if next == m.view {
		return nil
	}
	switch m.view {
	case viewDashboard:
		m.dashboard.Deactivate()
	case viewSessions:
		m.sessions.Deactivate()
	case viewSeats:
		m.halls.Deactivate()
		m.seats.Deactivate()
		m.pickingHall = false
	}
	m.log.Debug("view switched", zap.Stringer("from", m.view), zap.Stringer("to", next))
	return m.enterView(next)
}

func (m *appModel) enterView(v appView) tea.Cmd {
	m.view = v
	cmds := []tea.Cmd{m.spinner.Tick}
	switch v {
	case viewDashboard:
		cmds = append(cmds, m.dashboard.Activate())
	case viewSessions:
		cmds = append(cmds, m.sessions.Activate())
	case viewSeats:
		cmds = append(cmds, m.halls.Activate())
		if m.hallID != "" {
			cmds = append(cmds, m.seats.Activate())
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) refresh() tea.Cmd {
	switch m.view {
	case viewDashboard:
		return tea.Batch(m.dashboard.Refresh(), m.spinner.Tick)
	case viewSessions:
		return tea.Batch(m.sessions.Refresh(), m.spinner.Tick)
	case viewSeats:
		return tea.Batch(m.halls.Refresh(), m.seats.Refresh(), m.spinner.Tick)
	}
	return nil
}

// syncHall settles the selected hall once the hall list is known: an
// explicit choice sticks, otherwise the first hall, otherwise the fallback.
func (m *appModel) syncHall() tea.Cmd {
	if m.view != viewSeats {
		return nil
	}
	state := m.halls.State()
	if !state.Loaded && state.Err == nil {
		return nil
	}
	target := occupancy.ResolveHall(state.Value, m.hallID, m.defaultHall)
	if target == m.hallID && m.seats.Active() {
		return nil
	}
	return m.selectHall(target)
}

// selectHall discards the previous hall's grid, selection and in-flight
// fetches before the new hall's seats arrive.
func (m *appModel) selectHall(id string) tea.Cmd {
	if id == m.hallID && m.seats.Active() {
		return nil
	}
	if id != m.hallID {
		m.log.Info("hall selected", zap.String("from", m.hallID), zap.String("to", id))
	}
	m.hallID = id
	m.seatPanel.clear()
	cmd := m.seats.Reset(fetchSeats(m.api, id))
	if cmd == nil {
		cmd = m.seats.Activate()
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *appModel) cycleHall(delta int) tea.Cmd {
	halls := m.halls.State().Value
	if len(halls) == 0 {
		return nil
	}
	idx := occupancy.HallIndex(halls, m.hallID)
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(halls)) % len(halls)
	}
	return m.selectHall(halls[idx].Id.String())
}

func (m *appModel) syncSessionRows() {
	if state := m.sessions.State(); state.Loaded {
		m.sessionTable.SetRows(sessionRows(state.Value, m.now()))
	}
}

func (m appModel) clockCmd() tea.Cmd {
	return m.tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m appModel) isLoading() bool {
	switch m.view {
	case viewDashboard:
		s := m.dashboard.State()
		return !s.Loaded && s.Err == nil
	case viewSessions:
		s := m.sessions.State()
		return !s.Loaded && s.Err == nil
	case viewSeats:
		s := m.seats.State()
		return !s.Loaded && s.Err == nil
	}
	return false
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.hallList.SetSize(m.width, h)
	m.sessionTable.SetHeight(h - 2)
	m.progress.Width = min(60, max(10, m.width-20))
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
