// ABOUTME: CLI command for listing health metrics.
// ABOUTME: Shows newest first, with optional type filter and analysis footer.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/models"
	"github.com/spf13/cobra"
)

var (
	listType    string
	listLimit   int
	listAnalyze bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List health metrics",
	Long: `List recent health metrics for the current user.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  TYPE  VALUE  UNIT  (SOURCE)

EXAMPLES:

  healthai list                      # Last 20 metrics
  healthai list --type weight        # Only weight
  healthai list -n 50 --analyze      # 50 metrics plus health score`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listType != "" && !models.IsValidMetricType(listType) {
			return fmt.Errorf("unknown metric type: %s", listType)
		}

		res, err := current.svc.Metrics(cmd.Context(), current.user().ID, listAnalyze)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}

		metrics := filterMetrics(res.Metrics, models.MetricType(listType), listLimit)
		if len(metrics) == 0 {
			fmt.Println("No metrics found.")
		}

		faint := color.New(color.Faint)
		for _, m := range metrics {
			fmt.Printf("%s %s %s %s %s%s\n",
				faint.Sprint(shortID(m.ID)),
				faint.Sprint(m.Timestamp.Local().Format("2006-01-02 15:04")),
				padRight(string(m.Type), 16),
				formatValue(m.Value),
				m.Unit,
				faint.Sprintf(" (%s)", truncate(m.Source, 24)))
		}

		if res.Analysis != nil {
			fmt.Println()
			printAnalysis(res.Analysis)
		}
		return nil
	},
}

// filterMetrics returns up to limit metrics of metricType (all types when
// empty), newest first.
func filterMetrics(ms []models.HealthMetric, metricType models.MetricType, limit int) []models.HealthMetric {
	out := make([]models.HealthMetric, 0, len(ms))
	for _, m := range ms {
		if metricType == "" || m.Type == metricType {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by metric type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	listCmd.Flags().BoolVarP(&listAnalyze, "analyze", "a", false, "include the health score summary")
	rootCmd.AddCommand(listCmd)
}
