// ABOUTME: Health score and summary computed from a user's metrics and insights.
// ABOUTME: Scores start at 75 and gain 5 per metric recorded in the last 24 hours.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/healthai/internal/models"
)

const (
	baseScore     = 75
	perRecentGain = 5
	recentWindow  = 24 * time.Hour
)

// MetricSource lists a user's metrics.
type MetricSource interface {
	Query(ctx context.Context, userID string) ([]models.HealthMetric, error)
}

// InsightSource lists a user's insights.
type InsightSource interface {
	Query(ctx context.Context, userID string) ([]models.HealthInsight, error)
}

// Result is the outcome of Analyze.
type Result struct {
	HealthScore   int       `json:"healthScore" yaml:"health_score"`
	TotalMetrics  int       `json:"totalMetrics" yaml:"total_metrics"`
	TotalInsights int       `json:"totalInsights" yaml:"total_insights"`
	LastUpdate    time.Time `json:"lastUpdate" yaml:"last_update"`
	Summary       string    `json:"summary" yaml:"summary"`
}

// Analyzer computes Results.
type Analyzer struct {
	metrics  MetricSource
	insights InsightSource
	now      func() time.Time
}

// NewAnalyzer creates an Analyzer. A nil now defaults to time.Now.
func NewAnalyzer(metrics MetricSource, insights InsightSource, now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{metrics: metrics, insights: insights, now: now}
}

// Analyze summarises the user's recent activity.
func (a *Analyzer) Analyze(ctx context.Context, userID string) (*Result, error) {
	metrics, err := a.metrics.Query(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	insights, err := a.insights.Query(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}

	now := a.now()
	recent := CountRecent(metrics, now)

	return &Result{
		HealthScore:   Score(recent),
		TotalMetrics:  len(metrics),
		TotalInsights: len(insights),
		LastUpdate:    now,
		Summary:       fmt.Sprintf("You have %d health metrics recorded in the last 24 hours.", recent),
	}, nil
}

// CountRecent counts metrics strictly newer than 24 hours before now.
func CountRecent(metrics []models.HealthMetric, now time.Time) int {
	cutoff := now.Add(-recentWindow)
	n := 0
	for _, m := range metrics {
		if m.Timestamp.After(cutoff) {
			n++
		}
	}
	return n
}

// Score maps a recent-metric count to a 0-100 health score.
func Score(recent int) int {
	s := baseScore + perRecentGain*recent
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}
