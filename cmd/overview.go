package cmd

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"readinghall-dashboard/occupancy"
)

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the occupancy counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := a.client.GetOverview(cmd.Context())
			if err != nil {
				return fmt.Errorf("overview: %w", err)
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"Metric", "Value"})
			for _, counter := range occupancy.Counters(overview) {
				t.AppendRow(table.Row{counter.Label, counter.Value})
			}
			t.AppendSeparator()
			t.AppendRow(table.Row{"Sessions Today", overview.SessionsToday})
			t.AppendRow(table.Row{"Avg Duration", occupancy.FormatMinutes(int64(math.Round(overview.AvgDurationMinutes)))})
			t.Render()
			return nil
		},
	}
}

func (a *app) usageCmd() *cobra.Command {
	var (
		days   int
		hourly bool
	)
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show daily usage, oldest day first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.UsageDays
			}
			report, err := a.client.GetUsage(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("usage: %w", err)
			}
			out := cmd.OutOrStdout()
			points := occupancy.UsageSeries(report.Daily)
			if len(points) == 0 {
				fmt.Fprintf(out, "No usage recorded in the last %d days.\n", days)
			} else {
				t := newTable(out, table.Row{"Date", "Sessions", "Avg Duration"})
				t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
				total := 0
				for _, point := range points {
					total += point.Sessions
					t.AppendRow(table.Row{point.Label, point.Sessions, occupancy.FormatMinutes(int64(point.AvgDuration))})
				}
				t.AppendFooter(table.Row{"Total", total, ""})
				t.Render()
			}

			if !hourly {
				return nil
			}
			t := newTable(out, table.Row{"Hour", "Check-ins"})
			for _, point := range occupancy.HourlyDistribution(report.Hourly) {
				if point.Sessions == 0 {
					continue
				}
				t.AppendRow(table.Row{point.Label + ":00", point.Sessions})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days to report")
	cmd.Flags().BoolVar(&hourly, "hourly", false, "also show check-ins by hour of day")
	return cmd
}
