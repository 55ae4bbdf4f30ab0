package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readinghall-dashboard/model"
)

func (a *app) detectCmd() *cobra.Command {
	var detection model.Detection
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Report a seat occupancy detection",
		Long: `Forward one occupancy detection for a seat, as a camera pipeline would.
Useful for exercising the dashboard without the vision service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.ReportDetection(cmd.Context(), detection)
			if err != nil {
				return fmt.Errorf("detect: %w", err)
			}
			a.log.Debug("detection reported", zap.Int64("seat_id", detection.SeatId), zap.Bool("occupied", detection.IsOccupied))
			message := result.Message
			if message == "" {
				message = "Detection recorded"
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	cmd.Flags().Int64Var(&detection.SeatId, "seat-id", 0, "seat id")
	cmd.Flags().BoolVar(&detection.IsOccupied, "occupied", false, "seat is occupied")
	cmd.Flags().Float64Var(&detection.Confidence, "confidence", 1, "detection confidence in [0,1]")
	cmd.Flags().StringVar(&detection.ImagePath, "image", "", "path of the captured frame")
	return cmd
}
