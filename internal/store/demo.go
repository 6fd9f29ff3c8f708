// ABOUTME: Literal demo records for the demo user.
// ABOUTME: Timestamps are relative to the seeding time.
package store

import (
	"time"

	"github.com/harperreed/healthai/internal/models"
)

func demoMetrics(now time.Time) []models.HealthMetric {
	return []models.HealthMetric{
		{ID: "metric-1", UserID: models.DemoUserID, Type: models.MetricHeartRate, Value: 72, Unit: "bpm", Timestamp: now.Add(-2 * time.Hour), Source: "Apple Health"},
		{ID: "metric-2", UserID: models.DemoUserID, Type: models.MetricSteps, Value: 8547, Unit: "steps", Timestamp: now.Add(-1 * time.Hour), Source: "Fitbit"},
		{ID: "metric-3", UserID: models.DemoUserID, Type: models.MetricSleep, Value: 7.2, Unit: "hours", Timestamp: now.Add(-8 * time.Hour), Source: "Apple Health"},
		{ID: "metric-4", UserID: models.DemoUserID, Type: models.MetricWeight, Value: 75.5, Unit: "kg", Timestamp: now.Add(-24 * time.Hour), Source: "Smart Scale"},
	}
}

func demoInsights(now time.Time) []models.HealthInsight {
	return []models.HealthInsight{
		{
			ID:          "insight-1",
			UserID:      models.DemoUserID,
			Type:        models.InsightCorrelation,
			Title:       "Sleep & Heart Rate Correlation",
			Description: "GPT4All analysis shows your heart rate variability improves by 15% when you get 7+ hours of sleep. This correlation is stronger on weekends when stress levels are lower.",
			Confidence:  94,
			Timestamp:   now.Add(-30 * time.Minute),
			Generated:   true,
		},
		{
			ID:          "insight-2",
			UserID:      models.DemoUserID,
			Type:        models.InsightTrend,
			Title:       "Fitness Improvement Trajectory",
			Description: "Local AI model predicts your VO2 max will reach 52.1 within 6 weeks if you maintain current training intensity. Consider adding interval training twice weekly.",
			Confidence:  87,
			Timestamp:   now.Add(-1 * time.Hour),
			Generated:   true,
		},
		{
			ID:          "insight-3",
			UserID:      models.DemoUserID,
			Type:        models.InsightAnomaly,
			Title:       "Unusual Heart Rate Pattern",
			Description: "Your resting heart rate has been 15% higher than usual for the past 3 days. This could indicate increased stress or early signs of illness.",
			Confidence:  78,
			Timestamp:   now.Add(-2 * time.Hour),
			Generated:   true,
		},
	}
}

func demoSources() []models.DataSource {
	return []models.DataSource{
		{ID: "apple-health", Name: "Apple Health", Connected: true, LastSync: "2 minutes ago", DataPoints: 47, Status: models.SourceActive},
		{ID: "fitbit", Name: "Fitbit", Connected: true, LastSync: "5 minutes ago", DataPoints: 23, Status: models.SourceActive},
		{ID: "google-fit", Name: "Google Fit", Connected: false, LastSync: "Never", DataPoints: 0, Status: models.SourceDisconnected},
	}
}
