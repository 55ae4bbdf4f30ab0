package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readinghall-dashboard/model"
	"readinghall-dashboard/occupancy"
)

func (a *app) hallsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "halls",
		Short: "List reading halls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			halls, err := a.client.GetHalls(cmd.Context())
			if err != nil {
				return fmt.Errorf("halls: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(halls) == 0 {
				fmt.Fprintln(out, "No reading halls are configured.")
				return nil
			}
			t := newTable(out, table.Row{"ID", "Name", "Location", "Seats", "Active"})
			for _, hall := range halls {
				t.AppendRow(table.Row{hall.Id, hall.Name, hall.Location, hall.TotalSeats, yesNo(bool(hall.IsActive))})
			}
			t.Render()
			return nil
		},
	}
}

func (a *app) seatsCmd() *cobra.Command {
	var (
		hall string
		grid bool
	)
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Show the seats of a hall",
		Long: `Show the seats of a hall. Without --hall the first hall returned by the
API is used, falling back to READINGHALL_DEFAULT_HALL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hallID := a.resolveHall(cmd.Context(), hall)
			seats, err := a.client.GetHallSeats(cmd.Context(), hallID)
			if err != nil {
				return fmt.Errorf("seats of hall %s: %w", hallID, err)
			}
			layout := occupancy.BuildGrid(a.cfg.Grid.Rows, a.cfg.Grid.Columns, seats)
			out := cmd.OutOrStdout()
			if grid {
				renderGrid(out, layout)
			} else {
				t := newTable(out, table.Row{"Seat", "State", "Occupant", "Checked in", "Last activity"})
				for _, row := range layout.Cells {
					for _, cell := range row {
						if !cell.Present {
							continue
						}
						t.AppendRow(seatRow(cell.Seat, cell.State()))
					}
				}
				for _, seat := range layout.Orphans {
					t.AppendRow(seatRow(seat, stateOf(seat)))
				}
				t.Render()
			}
			fmt.Fprintf(out, "Hall %s: %d occupied, %d available, %d seats\n", hallID, layout.Occupied, layout.Available, layout.Total)
			if len(layout.Orphans) > 0 {
				fmt.Fprintf(out, "%d seat(s) outside the %dx%d layout\n", len(layout.Orphans), layout.Rows, layout.Columns)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hall, "hall", "", "hall id")
	cmd.Flags().BoolVar(&grid, "grid", false, "draw the seat layout instead of a table")
	return cmd
}

// resolveHall applies the dashboard's hall default: explicit id, else the
// first hall, else the configured fallback.
func (a *app) resolveHall(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	halls, err := a.client.GetHalls(ctx)
	if err != nil {
		a.log.Warn("hall list unavailable, using default hall", zap.Error(err))
	}
	return occupancy.ResolveHall(halls, "", a.cfg.DefaultHall)
}

func seatRow(seat model.Seat, state occupancy.SeatState) table.Row {
	checkedIn, activity := "", ""
	if !seat.CheckInTime.IsZero() {
		checkedIn = seat.CheckInTime.Local().Format("15:04")
	}
	if !seat.LastActivity.IsZero() {
		activity = seat.LastActivity.Local().Format("15:04:05")
	}
	return table.Row{seat.SeatNumber, state, seat.CurrentUserName, checkedIn, activity}
}

func stateOf(seat model.Seat) occupancy.SeatState {
	return occupancy.Cell{Seat: seat, Present: true}.State()
}

func renderGrid(out io.Writer, g occupancy.Grid) {
	for r := 0; r < g.Rows; r++ {
		tokens := make([]string, 0, g.Columns)
		for c := 0; c < g.Columns; c++ {
			switch g.Cells[r][c].State() {
			case occupancy.SeatFree:
				tokens = append(tokens, "[ ]")
			case occupancy.SeatOccupied:
				tokens = append(tokens, "[X]")
			case occupancy.SeatDisabled:
				tokens = append(tokens, "[#]")
			default:
				tokens = append(tokens, " · ")
			}
		}
		fmt.Fprintf(out, "R%-3d %s\n", r+1, strings.Join(tokens, " "))
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
