// ABOUTME: CLI command for the health score summary.
// ABOUTME: Prints score, totals and the last-24h summary line.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/analysis"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the health score summary",
	Long: `Compute the health score for the current user.

The score starts at 75 and gains 5 per metric recorded in the last 24
hours, capped at 100.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.svc.Analyze(cmd.Context(), current.user().ID)
		if err != nil {
			return fmt.Errorf("failed to analyze: %w", err)
		}
		printAnalysis(res)
		return nil
	},
}

func printAnalysis(res *analysis.Result) {
	score := color.New(color.Bold)
	switch {
	case res.HealthScore >= 85:
		score.Add(color.FgGreen)
	case res.HealthScore >= 75:
		score.Add(color.FgYellow)
	default:
		score.Add(color.FgRed)
	}
	fmt.Printf("Health score  %s\n", score.Sprintf("%d", res.HealthScore))
	fmt.Printf("Metrics       %d\n", res.TotalMetrics)
	fmt.Printf("Insights      %d\n", res.TotalInsights)
	fmt.Printf("Updated       %s\n", humanize.Time(res.LastUpdate))
	fmt.Println(color.New(color.Faint).Sprint(res.Summary))
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
