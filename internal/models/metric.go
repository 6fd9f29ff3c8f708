// ABOUTME: HealthMetric model and MetricType enum for health observations.
// ABOUTME: Defines the six tracked metric types and their default units.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MetricType represents the type of health metric being recorded.
type MetricType string

const (
	MetricHeartRate     MetricType = "heart_rate"
	MetricSteps         MetricType = "steps"
	MetricSleep         MetricType = "sleep"
	MetricWeight        MetricType = "weight"
	MetricBloodPressure MetricType = "blood_pressure"
	MetricTemperature   MetricType = "temperature"
)

// MetricUnits maps metric types to their default display units.
var MetricUnits = map[MetricType]string{
	MetricHeartRate:     "bpm",
	MetricSteps:         "steps",
	MetricSleep:         "hours",
	MetricWeight:        "kg",
	MetricBloodPressure: "mmHg",
	MetricTemperature:   "°C",
}

// AllMetricTypes returns all valid metric types.
var AllMetricTypes = []MetricType{
	MetricHeartRate, MetricSteps, MetricSleep,
	MetricWeight, MetricBloodPressure, MetricTemperature,
}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// HealthMetric is a single timestamped observation owned by one user.
type HealthMetric struct {
	ID        string     `json:"id" yaml:"id"`
	UserID    string     `json:"userId" yaml:"user_id"`
	Type      MetricType `json:"type" yaml:"type"`
	Value     float64    `json:"value" yaml:"value"`
	Unit      string     `json:"unit" yaml:"unit"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
	Source    string     `json:"source" yaml:"source"`
}

// NewMetric creates a HealthMetric with a generated ID, the current
// timestamp and the default unit for its type.
func NewMetric(userID string, metricType MetricType, value float64, source string) *HealthMetric {
	return &HealthMetric{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      metricType,
		Value:     value,
		Unit:      MetricUnits[metricType],
		Timestamp: time.Now(),
		Source:    source,
	}
}

// WithTimestamp sets a custom observation time.
func (m *HealthMetric) WithTimestamp(t time.Time) *HealthMetric {
	m.Timestamp = t
	return m
}

// Validate reports the first missing or malformed field, or nil.
func (m *HealthMetric) Validate() error {
	switch {
	case m.UserID == "":
		return &FieldError{Field: "userId", Reason: "is required"}
	case m.Type == "":
		return &FieldError{Field: "type", Reason: "is required"}
	case !IsValidMetricType(string(m.Type)):
		return &FieldError{Field: "type", Reason: "unknown metric type " + string(m.Type)}
	case math.IsNaN(m.Value) || math.IsInf(m.Value, 0):
		return &FieldError{Field: "value", Reason: "must be a finite number"}
	case m.Unit == "":
		return &FieldError{Field: "unit", Reason: "is required"}
	case m.Source == "":
		return &FieldError{Field: "source", Reason: "is required"}
	}
	return nil
}
