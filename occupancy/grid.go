// Package occupancy turns backend snapshots into render models: the fixed
// seat grid, session durations, usage series and the inspected seat.
package occupancy

import (
	"fmt"
	"strconv"
	"strings"

	"readinghall-dashboard/model"
)

const (
	DefaultRows    = 5
	DefaultColumns = 10
)

// SeatState is the display state of one grid cell.
type SeatState int

const (
	SeatEmpty SeatState = iota
	SeatFree
	SeatOccupied
	SeatDisabled
)

func (s SeatState) String() string {
	switch s {
	case SeatFree:
		return "free"
	case SeatOccupied:
		return "occupied"
	case SeatDisabled:
		return "disabled"
	default:
		return "empty"
	}
}

// Cell is one fixed position of the layout. Present is false for a
// placeholder with no seat in the snapshot.
type Cell struct {
	Row        int
	Column     int
	SeatNumber string
	Seat       model.Seat
	Present    bool
}

// State reports how the cell should be drawn. Occupancy wins over the
// availability flag since the backend does not keep them exclusive.
func (c Cell) State() SeatState {
	switch {
	case !c.Present:
		return SeatEmpty
	case bool(c.Seat.IsOccupied):
		return SeatOccupied
	case !bool(c.Seat.IsAvailable):
		return SeatDisabled
	default:
		return SeatFree
	}
}

type Grid struct {
	Rows      int
	Columns   int
	Cells     [][]Cell
	Occupied  int
	Available int
	Total     int
	// Orphans are seats whose number does not map onto the layout.
	Orphans []model.Seat
}

// SeatNumber returns the seat number of a 0-based grid position.
func SeatNumber(row int, column int) string {
	return fmt.Sprintf("R%dS%d", row+1, column+1)
}

// ParseSeatNumber is the inverse of SeatNumber. It only accepts the canonical
// form, so "R01S2" or "r1s2" are rejected.
func ParseSeatNumber(seatNumber string) (row int, column int, ok bool) {
	rest, found := strings.CutPrefix(seatNumber, "R")
	if !found {
		return 0, 0, false
	}
	rowText, colText, found := strings.Cut(rest, "S")
	if !found {
		return 0, 0, false
	}
	r, err := strconv.Atoi(rowText)
	if err != nil || r < 1 {
		return 0, 0, false
	}
	c, err := strconv.Atoi(colText)
	if err != nil || c < 1 {
		return 0, 0, false
	}
	if SeatNumber(r-1, c-1) != seatNumber {
		return 0, 0, false
	}
	return r - 1, c - 1, true
}

// BuildGrid reconciles a sparse seat snapshot against a rows x columns layout.
// The result always has exactly rows x columns cells; a missing seat leaves a
// placeholder at its position instead of shifting later seats.
func BuildGrid(rows int, columns int, seats []model.Seat) Grid {
	rows = max(0, rows)
	columns = max(0, columns)

	bySeatNumber := make(map[string]model.Seat, len(seats))
	for _, seat := range seats {
		if _, seen := bySeatNumber[seat.SeatNumber]; seen {
			continue
		}
		bySeatNumber[seat.SeatNumber] = seat
	}

	grid := Grid{
		Rows:    rows,
		Columns: columns,
		Cells:   make([][]Cell, rows),
	}
	matched := make(map[string]bool, len(bySeatNumber))
	for r := 0; r < rows; r++ {
		grid.Cells[r] = make([]Cell, columns)
		for c := 0; c < columns; c++ {
			number := SeatNumber(r, c)
			cell := Cell{Row: r, Column: c, SeatNumber: number}
			if seat, ok := bySeatNumber[number]; ok {
				cell.Seat = seat
				cell.Present = true
				matched[number] = true
			}
			grid.Cells[r][c] = cell
		}
	}

	for _, seat := range seats {
		if !matched[seat.SeatNumber] {
			grid.Orphans = append(grid.Orphans, seat)
		}
	}

	grid.Occupied, grid.Available = CountSeats(seats)
	grid.Total = len(seats)
	return grid
}

// CountSeats derives the per-snapshot counters: occupied seats, and seats that
// are available and not occupied.
func CountSeats(seats []model.Seat) (occupied int, available int) {
	for _, seat := range seats {
		if seat.IsOccupied {
			occupied++
		}
		if seat.IsAvailable && !seat.IsOccupied {
			available++
		}
	}
	return occupied, available
}

// Cell returns the cell at a 0-based position.
func (g Grid) Cell(row int, column int) (Cell, bool) {
	if row < 0 || column < 0 || row >= g.Rows || column >= g.Columns {
		return Cell{}, false
	}
	return g.Cells[row][column], true
}

// Lookup finds the cell a seat number maps to.
func (g Grid) Lookup(seatNumber string) (Cell, bool) {
	row, column, ok := ParseSeatNumber(seatNumber)
	if !ok {
		return Cell{}, false
	}
	cell, ok := g.Cell(row, column)
	if !ok || !cell.Present {
		return Cell{}, false
	}
	return cell, true
}
