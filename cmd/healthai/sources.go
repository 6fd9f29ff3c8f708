// ABOUTME: CLI commands for data sources.
// ABOUTME: Lists sources and connects one, simulating readings for the demo user.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/models"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List data sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := current.svc.Sources(cmd.Context(), current.user().ID)
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		printSources(srcs)
		return nil
	},
}

var sourcesConnectCmd = &cobra.Command{
	Use:   "connect <source-id>",
	Short: "Connect a data source",
	Long: `Mark a data source as connected and active.

For the demo user, connecting also records a few simulated readings.

Example:
  healthai sources connect fitbit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := current.svc.ConnectSource(cmd.Context(), current.user(), args[0])
		if err != nil {
			return fmt.Errorf("failed to connect source: %w", err)
		}
		color.Green("✓ Connected %s", args[0])
		printSources(srcs)
		return nil
	},
}

func printSources(srcs []models.DataSource) {
	if len(srcs) == 0 {
		fmt.Println("No data sources.")
		return
	}
	faint := color.New(color.Faint)
	for _, s := range srcs {
		status := string(s.Status)
		switch s.Status {
		case models.SourceActive:
			status = color.GreenString(status)
		case models.SourceError:
			status = color.RedString(status)
		default:
			status = faint.Sprint(status)
		}
		fmt.Printf("%s %s %s %s\n",
			padRight(s.ID, 14),
			padRight(s.Name, 18),
			padRight(status, 12),
			faint.Sprintf("%s points, synced %s", humanize.Comma(int64(s.DataPoints)), s.LastSync))
	}
}

func init() {
	sourcesCmd.AddCommand(sourcesConnectCmd)
	rootCmd.AddCommand(sourcesCmd)
}
