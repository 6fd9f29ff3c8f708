// ABOUTME: CLI command for adding health metrics.
// ABOUTME: Fills in the default unit for the metric type when --unit is omitted.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/models"
	"github.com/spf13/cobra"
)

var (
	addAt     string
	addUnit   string
	addSource string
)

var addCmd = &cobra.Command{
	Use:     "add <type> <value>",
	Aliases: []string{"a"},
	Short:   "Add a health metric",
	Long: `Add a health metric for the current user.

Valid types: heart_rate, steps, sleep, weight, blood_pressure, temperature

Examples:
  healthai add weight 72.4
  healthai add heart_rate 64 --at "2025-01-31 07:00"
  healthai add steps 9120 --source "Fitbit"
  healthai add temperature 98.6 --unit °F`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metricType := args[0]
		if !models.IsValidMetricType(metricType) {
			return fmt.Errorf("unknown metric type: %s\nValid types: %s", metricType, metricTypeList())
		}

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		unit := addUnit
		if unit == "" {
			unit = models.MetricUnits[models.MetricType(metricType)]
		}

		var at time.Time
		if addAt != "" {
			at, err = parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
		}

		m, err := current.svc.AddMetric(cmd.Context(), health.MetricInput{
			UserID:    current.user().ID,
			Type:      metricType,
			Value:     &value,
			Unit:      unit,
			Source:    addSource,
			Timestamp: at,
		})
		if err != nil {
			return fmt.Errorf("failed to add metric: %w", err)
		}

		color.Green("✓ Added %s", metricType)
		fmt.Printf("  %s %s %s\n",
			color.New(color.Faint).Sprint(shortID(m.ID)),
			formatValue(m.Value), m.Unit)
		return nil
	},
}

func metricTypeList() string {
	names := make([]string, len(models.AllMetricTypes))
	for i, mt := range models.AllMetricTypes {
		names[i] = string(mt)
	}
	return strings.Join(names, ", ")
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addUnit, "unit", "", "unit (defaults to the type's unit)")
	addCmd.Flags().StringVar(&addSource, "source", "CLI", "where the reading came from")
	rootCmd.AddCommand(addCmd)
}
