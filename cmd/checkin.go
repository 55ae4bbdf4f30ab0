package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readinghall-dashboard/occupancy"
	"readinghall-dashboard/service"
)

func (a *app) checkInCmd() *cobra.Command {
	var (
		barcode string
		seat    string
		seatID  int64
		hall    string
	)
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a user in to a seat",
		Long: `Check a user in to a seat, either by seat id (--seat-id 12) or by seat
number within a hall (--seat R1S3 --hall 1). The barcode is prompted for when
--barcode is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seatID <= 0 && seat == "" {
				return errors.New("checkin: --seat or --seat-id is required")
			}
			if seatID <= 0 {
				id, err := a.lookupSeatID(cmd.Context(), hall, seat)
				if err != nil {
					return err
				}
				seatID = id
			}
			code, err := barcodeOrPrompt(cmd, barcode)
			if err != nil {
				return err
			}

			result, err := a.client.CheckIn(cmd.Context(), code, seatID)
			if service.IsConflict(err) {
				return fmt.Errorf("checkin refused: %w", err)
			}
			if err != nil {
				return fmt.Errorf("checkin: %w", err)
			}
			a.log.Info("checked in", zap.Int64("seat_id", seatID), zap.String("session", result.SessionId.String()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (seat %s, session %s)\n", result.Message, result.SeatNumber, result.SessionId)
			return nil
		},
	}
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode of the user")
	cmd.Flags().StringVar(&seat, "seat", "", "seat number such as R1S3")
	cmd.Flags().Int64Var(&seatID, "seat-id", 0, "seat id")
	cmd.Flags().StringVar(&hall, "hall", "", "hall of --seat (defaults like the seats command)")
	return cmd
}

func (a *app) checkOutCmd() *cobra.Command {
	var barcode string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check a user out and end their session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := barcodeOrPrompt(cmd, barcode)
			if err != nil {
				return err
			}
			result, err := a.client.CheckOut(cmd.Context(), code)
			if service.IsNotFound(err) {
				return fmt.Errorf("no active session for barcode %q", code)
			}
			if err != nil {
				return fmt.Errorf("checkout: %w", err)
			}
			a.log.Info("checked out", zap.String("seat", result.SeatNumber), zap.Int("minutes", result.DurationMinutes))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (seat %s, %s)\n", result.Message, result.SeatNumber, occupancy.FormatMinutes(int64(result.DurationMinutes)))
			return nil
		},
	}
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode of the user")
	return cmd
}

// lookupSeatID resolves a seat number to its id within a hall.
func (a *app) lookupSeatID(ctx context.Context, hall string, seatNumber string) (int64, error) {
	seatNumber = strings.ToUpper(strings.TrimSpace(seatNumber))
	if _, _, ok := occupancy.ParseSeatNumber(seatNumber); !ok {
		return 0, fmt.Errorf("checkin: %q is not a seat number like R1S3", seatNumber)
	}
	hallID := a.resolveHall(ctx, hall)
	seats, err := a.client.GetHallSeats(ctx, hallID)
	if err != nil {
		return 0, fmt.Errorf("seats of hall %s: %w", hallID, err)
	}
	for _, seat := range seats {
		if seat.SeatNumber != seatNumber {
			continue
		}
		id, ok := seat.Id.Int64()
		if !ok {
			return 0, fmt.Errorf("checkin: seat %s has no numeric id", seatNumber)
		}
		return id, nil
	}
	return 0, fmt.Errorf("checkin: no seat %s in hall %s", seatNumber, hallID)
}

func barcodeOrPrompt(cmd *cobra.Command, barcode string) (string, error) {
	if barcode = strings.TrimSpace(barcode); barcode != "" {
		return barcode, nil
	}
	prompt := promptui.Prompt{
		Label: "Barcode",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("barcode is required")
			}
			return nil
		},
		Stdin:  stdinFor(cmd),
		Stdout: stdoutFor(cmd),
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("barcode prompt: %w", err)
	}
	return strings.TrimSpace(value), nil
}
