// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server acting as the current CLI identity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthai/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts as the demo user, or as
the account given with --email.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "healthai": {
        "command": "healthai",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_metric            Record a health metric
  list_metrics          List recent metrics
  analyze_health        Health score summary
  list_insights         List insights
  generate_insight      Generate a new insight
  ask_health_assistant  Ask the health assistant
  list_sources          List data sources
  connect_source        Connect a data source

AVAILABLE RESOURCES:

  health://summary          Health score summary
  health://metrics/recent   Recent metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(current.svc, current.session)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
