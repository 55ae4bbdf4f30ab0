package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"readinghall-dashboard/model"
	"readinghall-dashboard/occupancy"
)

// seatPanel is the seat view's derived state. It is shared by pointer so the
// seats controller can rebuild the grid from inside OnApply.
type seatPanel struct {
	rows    int
	columns int

	grid      occupancy.Grid
	selection occupancy.Selection

	cursorRow int
	cursorCol int
}

func newSeatPanel(rows int, columns int) *seatPanel {
	p := &seatPanel{rows: rows, columns: columns}
	p.clear()
	return p
}

func (p *seatPanel) apply(seats []model.Seat) {
	p.grid = occupancy.BuildGrid(p.rows, p.columns, seats)
}

// clear drops the grid and the selection before another hall loads.
func (p *seatPanel) clear() {
	p.grid = occupancy.BuildGrid(p.rows, p.columns, nil)
	p.selection = occupancy.NewSelection(p.grid.Columns)
}

func (p *seatPanel) move(dRow int, dCol int) {
	p.cursorRow = clamp(p.cursorRow+dRow, 0, p.grid.Rows-1)
	p.cursorCol = clamp(p.cursorCol+dCol, 0, p.grid.Columns-1)
}

func (p *seatPanel) selectCursor(now time.Time) bool {
	cell, ok := p.grid.Cell(p.cursorRow, p.cursorCol)
	if !ok {
		return false
	}
	return p.selection.Select(cell, now)
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func fetchHalls(api API) func(context.Context) ([]model.Hall, error) {
	return func(ctx context.Context) ([]model.Hall, error) {
		return api.GetHalls(ctx)
	}
}

func fetchSeats(api API, hallID string) func(context.Context) ([]model.Seat, error) {
	return func(ctx context.Context) ([]model.Seat, error) {
		return api.GetHallSeats(ctx, hallID)
	}
}

type hallItem struct {
	hall model.Hall
}

func (h hallItem) Title() string {
	if h.hall.Name == "" {
		return "Hall " + h.hall.Id.String()
	}
	return h.hall.Name
}

func (h hallItem) Description() string {
	parts := []string{}
	if h.hall.Location != "" {
		parts = append(parts, h.hall.Location)
	}
	if h.hall.TotalSeats > 0 {
		parts = append(parts, fmt.Sprintf("%d seats", h.hall.TotalSeats))
	}
	if !h.hall.IsActive {
		parts = append(parts, "inactive")
	}
	return strings.Join(parts, " • ")
}

func (h hallItem) FilterValue() string {
	return strings.ToLower(h.hall.Name + " " + h.hall.Location)
}

func buildHallItems(halls []model.Hall) []list.Item {
	items := make([]list.Item, 0, len(halls))
	for _, hall := range halls {
		items = append(items, hallItem{hall: hall})
	}
	return items
}

func (m appModel) currentHall() (model.Hall, bool) {
	halls := m.halls.State().Value
	if idx := occupancy.HallIndex(halls, m.hallID); idx >= 0 {
		return halls[idx], true
	}
	return model.Hall{}, false
}

func (m appModel) seatsView() string {
	halls := m.halls.State()
	if !halls.Loaded && halls.Err == nil && m.hallID == "" {
		return m.loadingOrError("Loading halls", nil)
	}
	var notice string
	if halls.Loaded && len(halls.Value) == 0 {
		notice = hint("No reading halls are configured. Showing hall " + m.hallID + ".")
	}
	if m.pickingHall {
		return m.hallList.View()
	}

	title := "Hall " + m.hallID
	if hall, ok := m.currentHall(); ok {
		title = hallItem{hall: hall}.Title()
		if hall.Location != "" {
			title += " • " + hall.Location
		}
	}

	seats := m.seats.State()
	var body string
	switch {
	case !seats.Loaded:
		body = m.loadingOrError("Loading seats", seats.Err)
	default:
		body = m.renderGrid()
	}

	var sections []string
	if notice != "" {
		sections = append(sections, notice, "")
	}
	sections = append(sections, titleStyle.Render(title), "", body)
	if halls.Err != nil && !halls.Loaded {
		sections = append(sections, "", errorStyle.Render("Halls unavailable: "+halls.Err.Error()))
	}
	if panel := m.selectionView(); panel != "" {
		sections = append(sections, "", panel)
	}
	return strings.Join(sections, "\n")
}

func (m appModel) renderGrid() string {
	p := m.seatPanel
	g := p.grid

	labelWidth := len(fmt.Sprintf("R%d", g.Rows))
	const cellWidth = 3

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for c := 0; c < g.Columns; c++ {
		b.WriteString(padCell(fmt.Sprintf("S%d", c+1), cellWidth))
		if c < g.Columns-1 {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")

	for r := 0; r < g.Rows; r++ {
		fmt.Fprintf(&b, "%-*s ", labelWidth, fmt.Sprintf("R%d", r+1))
		for c := 0; c < g.Columns; c++ {
			cell := g.Cells[r][c]
			rendered := seatToken(cell.State(), cellWidth)
			if r == p.cursorRow && c == p.cursorCol {
				rendered = cursorStyle.Render(rendered)
			}
			b.WriteString(rendered)
			if c < g.Columns-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	legend := "Legend: [ ] free • [X] occupied • [#] disabled • · no seat"
	counts := fmt.Sprintf("Occupied: %d • Available: %d • Seats: %d", g.Occupied, g.Available, g.Total)
	out := b.String() + "\n" + hint(legend) + "\n" + hint(counts)
	if len(g.Orphans) > 0 {
		out += "\n" + hint(fmt.Sprintf("%d seat(s) outside the %dx%d layout are not shown.", len(g.Orphans), g.Rows, g.Columns))
	}
	return out
}

func seatToken(state occupancy.SeatState, width int) string {
	switch state {
	case occupancy.SeatFree:
		return seatFreeStyle.Render(padCell("[ ]", width))
	case occupancy.SeatOccupied:
		return seatOccupiedStyle.Render(padCell("[X]", width))
	case occupancy.SeatDisabled:
		return seatDisabledStyle.Render(padCell("[#]", width))
	default:
		return seatEmptyStyle.Render(padCell("·", width))
	}
}

func (m appModel) selectionView() string {
	selected, ok := m.seatPanel.selection.Selected()
	if !ok {
		return ""
	}
	seat := selected.Seat
	lines := []string{
		titleStyle.Render("Seat " + seat.SeatNumber),
		fmt.Sprintf("Row %d • Column %d", selected.Row, selected.Column),
	}
	switch {
	case bool(seat.IsOccupied):
		status := "Occupied"
		if selected.Occupant != "" {
			status += " by " + selected.Occupant
		}
		if !seat.CheckInTime.IsZero() {
			minutes := occupancy.DurationMinutes(seat.CheckInTime.Time, m.now())
			status += fmt.Sprintf(" since %s (%s)", seat.CheckInTime.Local().Format("15:04"), occupancy.FormatMinutes(minutes))
		}
		lines = append(lines, status)
	case !bool(seat.IsAvailable):
		lines = append(lines, "Disabled")
	default:
		lines = append(lines, "Free")
	}
	if !seat.LastActivity.IsZero() {
		lines = append(lines, hint("Last activity "+seat.LastActivity.Local().Format("15:04:05")))
	}
	lines = append(lines, hint("As of "+selected.SelectedAt.Local().Format("15:04:05")+" • enter to re-inspect • esc to clear"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func padCell(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := width - n
	left := padding / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", padding-left)
}
