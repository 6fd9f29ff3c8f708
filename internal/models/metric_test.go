// ABOUTME: Tests for HealthMetric model and MetricType.
// ABOUTME: Validates type constants, units mapping, constructor and validation.
package models

import (
	"errors"
	"math"
	"testing"
)

func TestMetricTypeUnit(t *testing.T) {
	tests := []struct {
		metricType MetricType
		wantUnit   string
	}{
		{MetricHeartRate, "bpm"},
		{MetricSteps, "steps"},
		{MetricSleep, "hours"},
		{MetricWeight, "kg"},
	}

	for _, tt := range tests {
		t.Run(string(tt.metricType), func(t *testing.T) {
			got := MetricUnits[tt.metricType]
			if got != tt.wantUnit {
				t.Errorf("MetricUnits[%s] = %s, want %s", tt.metricType, got, tt.wantUnit)
			}
		})
	}
}

func TestAllMetricTypesHaveUnits(t *testing.T) {
	for _, mt := range AllMetricTypes {
		if _, ok := MetricUnits[mt]; !ok {
			t.Errorf("MetricType %s has no unit defined", mt)
		}
	}
}

func TestNewMetric(t *testing.T) {
	m := NewMetric("u1", MetricWeight, 82.5, "Smart Scale")

	if m.ID == "" {
		t.Error("expected ID to be set")
	}
	if m.UserID != "u1" {
		t.Errorf("UserID = %s, want u1", m.UserID)
	}
	if m.Unit != "kg" {
		t.Errorf("Unit = %s, want kg", m.Unit)
	}
	if m.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestMetricValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m *HealthMetric)
		wantField string
	}{
		{"missing user", func(m *HealthMetric) { m.UserID = "" }, "userId"},
		{"missing type", func(m *HealthMetric) { m.Type = "" }, "type"},
		{"unknown type", func(m *HealthMetric) { m.Type = "mood" }, "type"},
		{"nan value", func(m *HealthMetric) { m.Value = math.NaN() }, "value"},
		{"missing unit", func(m *HealthMetric) { m.Unit = "" }, "unit"},
		{"missing source", func(m *HealthMetric) { m.Source = "" }, "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetric("u1", MetricSteps, 0, "Fitbit")
			tt.mutate(m)

			var fe *FieldError
			if err := m.Validate(); !errors.As(err, &fe) {
				t.Fatalf("Validate() = %v, want FieldError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", fe.Field, tt.wantField)
			}
		})
	}
}

func TestIsValidMetricType(t *testing.T) {
	if !IsValidMetricType("blood_pressure") {
		t.Error("blood_pressure should be valid")
	}
	if IsValidMetricType("hrv") {
		t.Error("hrv should not be valid")
	}
}
