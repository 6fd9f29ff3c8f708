// ABOUTME: Tests for question classification and templated replies.
// ABOUTME: Covers topic precedence and every value threshold.
package insight

import (
	"strings"
	"testing"

	"github.com/harperreed/healthai/internal/models"
)

func metric(t models.MetricType, v float64) models.HealthMetric {
	return models.HealthMetric{UserID: "u1", Type: t, Value: v, Unit: models.MetricUnits[t], Source: "test"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Topic
	}{
		{"How is my SLEEP?", TopicSleep},
		{"sleep and heart together", TopicSleep},
		{"what's my pulse", TopicHeart},
		{"heart and steps", TopicHeart},
		{"daily activity", TopicSteps},
		{"I like to walk", TopicSteps},
		{"steps and weight", TopicSteps},
		{"what's my BMI", TopicWeight},
		{"weight", TopicWeight},
		{"hello there", TopicGeneral},
		{"", TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestRespondSleep(t *testing.T) {
	got := Respond("sleep?", []models.HealthMetric{metric(models.MetricSleep, 7.2)}, nil)
	if !strings.HasPrefix(got, "Excellent! Your average sleep duration is 7.2 hours") {
		t.Errorf("unexpected reply: %s", got)
	}

	got = Respond("sleep?", []models.HealthMetric{
		metric(models.MetricSleep, 6),
		metric(models.MetricSleep, 6.5),
	}, nil)
	if !strings.Contains(got, "6.2 hours, which is below the recommended 7-9 hours") &&
		!strings.Contains(got, "6.3 hours, which is below the recommended 7-9 hours") {
		t.Errorf("unexpected reply: %s", got)
	}
	if !strings.Contains(got, "10-15%") {
		t.Errorf("percent sign lost: %s", got)
	}

	got = Respond("sleep?", []models.HealthMetric{metric(models.MetricSleep, 7)}, nil)
	if !strings.HasPrefix(got, "Excellent!") {
		t.Errorf("7 hours should count as optimal: %s", got)
	}

	got = Respond("sleep?", nil, nil)
	if !strings.HasPrefix(got, "I notice you haven't recorded any sleep data yet.") {
		t.Errorf("unexpected empty reply: %s", got)
	}
}

func TestRespondHeart(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		prefix string
	}{
		{"LowerBound", []float64{60}, "Your recent resting heart rate of 60 BPM is excellent"},
		{"UpperBound", []float64{80}, "Your recent resting heart rate of 80 BPM is excellent"},
		{"Elevated", []float64{81}, "Your recent heart rate of 81 BPM is slightly elevated"},
		{"Low", []float64{55}, "Your resting heart rate of 55 BPM is quite low"},
		{"UsesLatest", []float64{90, 72.5}, "Your recent resting heart rate of 72.5 BPM is excellent"},
		{"Empty", nil, "I don't see any heart rate data yet."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ms []models.HealthMetric
			for _, v := range tt.values {
				ms = append(ms, metric(models.MetricHeartRate, v))
			}
			got := Respond("my heart", ms, nil)
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("got %q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestRespondSteps(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		prefix string
	}{
		{"Outstanding", 10000, "Outstanding! You've achieved 10,000 steps"},
		{"Good", 8547, "Good progress with 8,547 steps!"},
		{"GoodBoundary", 7000, "Good progress with 7,000 steps!"},
		{"KeepMoving", 6999, "You've logged 6,999 steps today."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Respond("steps", []models.HealthMetric{metric(models.MetricSteps, tt.value)}, nil)
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("got %q, want prefix %q", got, tt.prefix)
			}
		})
	}

	got := Respond("activity", nil, nil)
	if !strings.HasPrefix(got, "I don't see any activity data yet.") {
		t.Errorf("unexpected empty reply: %s", got)
	}
}

func TestRespondWeight(t *testing.T) {
	with := Respond("bmi", []models.HealthMetric{metric(models.MetricWeight, 75.5)}, nil)
	if !strings.HasPrefix(with, "Based on your weight data") {
		t.Errorf("unexpected reply: %s", with)
	}
	without := Respond("weight", []models.HealthMetric{metric(models.MetricSteps, 1)}, nil)
	if !strings.HasPrefix(without, "Weight tracking can provide valuable insights") {
		t.Errorf("unexpected reply: %s", without)
	}
}

func TestRespondGeneral(t *testing.T) {
	got := Respond("hi", nil, nil)
	if !strings.HasPrefix(got, "Welcome to your AI health assistant!") {
		t.Errorf("unexpected reply: %s", got)
	}

	ms := []models.HealthMetric{metric(models.MetricSteps, 1), metric(models.MetricSleep, 7)}
	ins := []models.HealthInsight{{Title: "x"}}
	got = Respond("hi", ms, ins)
	if !strings.HasPrefix(got, "I've analyzed your 2 health data points and generated 1 personalized insights.") {
		t.Errorf("unexpected reply: %s", got)
	}
}
