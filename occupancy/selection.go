package occupancy

import (
	"time"

	"readinghall-dashboard/model"
)

// SelectedSeat is the inspected seat with its derived display fields. Row and
// Column are 1-based.
type SelectedSeat struct {
	Seat       model.Seat
	Row        int
	Column     int
	Occupant   string
	SelectedAt time.Time
}

// Selection holds at most one inspected seat. It keeps a copy taken at
// selection time; later refreshes do not update it.
type Selection struct {
	columns  int
	selected SelectedSeat
	ok       bool
}

func NewSelection(columns int) Selection {
	return Selection{columns: columns}
}

// Select replaces the current selection with a copy of the cell's seat.
// Placeholder cells leave the selection unchanged.
func (s *Selection) Select(cell Cell, now time.Time) bool {
	if !cell.Present {
		return false
	}
	s.selected = Describe(cell.Seat, s.columns)
	s.selected.SelectedAt = now
	s.ok = true
	return true
}

func (s *Selection) Clear() {
	s.selected = SelectedSeat{}
	s.ok = false
}

func (s Selection) Selected() (SelectedSeat, bool) {
	return s.selected, s.ok
}

// Describe derives the row, column and occupant of a seat. The column is the
// seat column modulo the grid width, with 0 shown as the last column.
func Describe(seat model.Seat, columns int) SelectedSeat {
	desc := SelectedSeat{Seat: seat, Occupant: seat.CurrentUserName}
	row, column, ok := ParseSeatNumber(seat.SeatNumber)
	if !ok {
		return desc
	}
	desc.Row = row + 1
	desc.Column = column + 1
	if columns > 0 {
		desc.Column = (column + 1) % columns
		if desc.Column == 0 {
			desc.Column = columns
		}
	}
	return desc
}
