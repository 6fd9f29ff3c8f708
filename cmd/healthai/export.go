// ABOUTME: CLI commands for exporting and importing health data.
// ABOUTME: Supports JSON and YAML documents; import replaces the current user's data.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health data",
	Long: `Export the current user's metrics, insights and data sources.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

EXAMPLES:

  healthai export json                  # Print JSON to stdout
  healthai export json -o backup.json   # Save to file
  healthai export yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if format != "json" && format != "yaml" {
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}

		doc, err := current.svc.Export(cmd.Context(), current.user().ID)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		if format == "json" {
			data, err = storage.ExportJSON(doc)
		} else {
			data, err = storage.ExportYAML(doc)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health data from a JSON or YAML export",
	Long: `Import a previously exported document into the current user.

The current user's metrics, insights and data sources are replaced by the
document's contents. Nothing is written if any record is invalid.

EXAMPLES:

  healthai import backup.json
  healthai --email ada@example.com --password secret1 import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		doc, err := storage.ParseExport(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		doc.UserID = current.user().ID

		summary, err := current.svc.Import(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %d metrics, %d insights, %d sources\n",
			summary.Metrics, summary.Insights, summary.Sources)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
