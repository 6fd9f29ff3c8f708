// ABOUTME: Export and import format for a user's health data.
// ABOUTME: Supports JSON and YAML encodings of the same document.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthai/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format for one user's health data.
type ExportData struct {
	Version    string                  `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool       string                  `json:"tool" yaml:"tool"`
	UserID     string                  `json:"user_id" yaml:"user_id"`
	Metrics    []*models.HealthMetric  `json:"metrics" yaml:"metrics"`
	Insights   []*models.HealthInsight `json:"insights" yaml:"insights"`
	Sources    []*models.DataSource    `json:"sources" yaml:"sources"`
}

// NewExportData stamps an export document for userID.
func NewExportData(userID string) *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "healthai",
		UserID:     userID,
	}
}

// ExportJSON encodes data as indented JSON.
func ExportJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML encodes data as YAML.
func ExportYAML(data *ExportData) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseExport decodes an export document, accepting either JSON or YAML.
func ParseExport(raw []byte) (*ExportData, error) {
	var data ExportData
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return nil, fmt.Errorf("parse json export: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("parse yaml export: %w", err)
	}
	if data.Version == "" {
		return nil, fmt.Errorf("missing export version")
	}
	return &data, nil
}
