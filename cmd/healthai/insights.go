// ABOUTME: CLI commands for listing and generating insights.
// ABOUTME: Generation honours insights.latency from the config.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/models"
	"github.com/spf13/cobra"
)

var insightsLimit int

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"i"},
	Short:   "List health insights",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, err := current.svc.Insights(cmd.Context(), current.user().ID)
		if err != nil {
			return fmt.Errorf("failed to list insights: %w", err)
		}
		if len(ins) == 0 {
			fmt.Println("No insights yet. Try 'healthai insights generate'.")
			return nil
		}

		sort.SliceStable(ins, func(i, j int) bool {
			return ins[i].Timestamp.After(ins[j].Timestamp)
		})
		if insightsLimit > 0 && len(ins) > insightsLimit {
			ins = ins[:insightsLimit]
		}
		for i := range ins {
			printInsight(&ins[i])
		}
		return nil
	},
}

var insightsGenerateCmd = &cobra.Command{
	Use:   "generate [query]",
	Short: "Generate a new insight",
	Long: `Generate a new insight for the current user and store it.

Examples:
  healthai insights generate
  healthai insights generate "what should I improve?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := current.svc.GenerateInsight(cmd.Context(), current.user().ID, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to generate insight: %w", err)
		}
		color.Green("✓ Generated insight")
		printInsight(in)
		return nil
	},
}

func printInsight(in *models.HealthInsight) {
	faint := color.New(color.Faint)
	fmt.Printf("%s %s %s\n",
		faint.Sprint(shortID(in.ID)),
		padRight(strings.ToUpper(string(in.Type)), 15),
		color.New(color.Bold).Sprint(in.Title))
	fmt.Printf("  %s\n", in.Description)
	fmt.Printf("  %s\n", faint.Sprintf("%d%% confidence, %s", in.Confidence, humanize.Time(in.Timestamp)))
}

func init() {
	insightsCmd.Flags().IntVarP(&insightsLimit, "limit", "n", 20, "max number of results")
	insightsCmd.AddCommand(insightsGenerateCmd)
	rootCmd.AddCommand(insightsCmd)
}
