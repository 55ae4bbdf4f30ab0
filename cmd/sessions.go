package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"readinghall-dashboard/occupancy"
	"readinghall-dashboard/service"
)

func (a *app) sessionsCmd() *cobra.Command {
	var hall string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List active check-in sessions with elapsed time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.client.GetActiveSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			t := newTable(out, table.Row{"Student", "Name", "Hall", "Seat", "Checked in", "Elapsed", "Method"})
			shown := 0
			for _, row := range occupancy.ProjectSessions(sessions, time.Now()) {
				if hall != "" && row.Session.HallId.String() != hall {
					continue
				}
				checkedIn := "-"
				if row.HasStart {
					checkedIn = row.Session.CheckInTime.Local().Format("15:04")
				}
				t.AppendRow(table.Row{
					row.Session.StudentId,
					row.Session.UserName,
					row.Session.HallName,
					row.Session.SeatNumber,
					checkedIn,
					row.Elapsed,
					row.Session.CheckInMethod,
				})
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "No active sessions.")
				return nil
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&hall, "hall", "", "only sessions of this hall id")
	return cmd
}

func (a *app) usersCmd() *cobra.Command {
	var barcode string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users, or look one up by barcode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			header := table.Row{"ID", "Student", "Name", "Email", "Phone", "Barcode", "Active"}
			if barcode != "" {
				user, err := a.client.GetUserByBarcode(cmd.Context(), barcode)
				if service.IsNotFound(err) {
					return fmt.Errorf("no user with barcode %q", barcode)
				}
				if err != nil {
					return fmt.Errorf("user lookup: %w", err)
				}
				t := newTable(out, header)
				t.AppendRow(table.Row{user.Id, user.StudentId, user.Name, user.Email, user.Phone, user.BarcodeData, yesNo(bool(user.IsActive))})
				t.Render()
				return nil
			}

			users, err := a.client.GetUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("users: %w", err)
			}
			if len(users) == 0 {
				fmt.Fprintln(out, "No users registered.")
				return nil
			}
			t := newTable(out, header)
			for _, user := range users {
				t.AppendRow(table.Row{user.Id, user.StudentId, user.Name, user.Email, user.Phone, user.BarcodeData, yesNo(bool(user.IsActive))})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&barcode, "barcode", "", "look up the user with this barcode")
	return cmd
}
