// ABOUTME: HealthInsight model for generated textual insights.
// ABOUTME: Insights carry a type, title, description and a 0-100 confidence.
package models

import (
	"time"

	"github.com/google/uuid"
)

// InsightType classifies a generated insight.
type InsightType string

const (
	InsightCorrelation    InsightType = "correlation"
	InsightTrend          InsightType = "trend"
	InsightRecommendation InsightType = "recommendation"
	InsightGoal           InsightType = "goal"
	InsightAnomaly        InsightType = "anomaly"
)

// AllInsightTypes returns all valid insight types.
var AllInsightTypes = []InsightType{
	InsightCorrelation, InsightTrend, InsightRecommendation, InsightGoal, InsightAnomaly,
}

// IsValidInsightType checks if a string is a valid insight type.
func IsValidInsightType(s string) bool {
	for _, it := range AllInsightTypes {
		if string(it) == s {
			return true
		}
	}
	return false
}

const (
	MinConfidence = 0
	MaxConfidence = 100
)

// HealthInsight is a piece of generated advice attached to a user.
type HealthInsight struct {
	ID          string      `json:"id" yaml:"id"`
	UserID      string      `json:"userId" yaml:"user_id"`
	Type        InsightType `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Confidence  int         `json:"confidence" yaml:"confidence"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	Generated   bool        `json:"gpt4allGenerated" yaml:"generated"`
}

// NewInsight creates a HealthInsight with a generated ID and the current timestamp.
func NewInsight(userID string, insightType InsightType, title, description string, confidence int) *HealthInsight {
	return &HealthInsight{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        insightType,
		Title:       title,
		Description: description,
		Confidence:  confidence,
		Timestamp:   time.Now(),
	}
}

// Validate reports the first missing or malformed field, or nil.
func (i *HealthInsight) Validate() error {
	switch {
	case i.UserID == "":
		return &FieldError{Field: "userId", Reason: "is required"}
	case !IsValidInsightType(string(i.Type)):
		return &FieldError{Field: "type", Reason: "unknown insight type " + string(i.Type)}
	case i.Title == "":
		return &FieldError{Field: "title", Reason: "is required"}
	case i.Confidence < MinConfidence || i.Confidence > MaxConfidence:
		return &FieldError{Field: "confidence", Reason: "must be between 0 and 100"}
	}
	return nil
}
