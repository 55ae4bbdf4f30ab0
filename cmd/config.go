package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"readinghall-dashboard/model"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change the backend configuration",
	}
	cmd.AddCommand(a.configGetCmd(), a.configSetCmd())
	return cmd
}

func (a *app) configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show every configuration entry, or one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.client.GetConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				for _, entry := range entries {
					if entry.Key == args[0] {
						fmt.Fprintln(out, entry.Value)
						return nil
					}
				}
				return fmt.Errorf("config: no key %q", args[0])
			}
			t := newTable(out, table.Row{"Key", "Value", "Description", "Updated"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 40}})
			for _, entry := range entries {
				updated := ""
				if !entry.UpdatedAt.IsZero() {
					updated = entry.UpdatedAt.Local().Format("2006-01-02 15:04")
				}
				t.AppendRow(table.Row{entry.Key, entry.Value, entry.Description, updated})
			}
			t.Render()
			return nil
		},
	}
}

func (a *app) configSetCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one configuration key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.SetConfig(cmd.Context(), model.ConfigUpdate{
				Key:         args[0],
				Value:       args[1],
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			message := result.Message
			if message == "" {
				message = "Configuration updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", message, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "description stored with the key")
	return cmd
}
