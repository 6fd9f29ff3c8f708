// ABOUTME: MCP resource implementations for the health assistant.
// ABOUTME: Provides health://summary and health://metrics/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthai/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI       = "health://summary"
	recentMetricsURI = "health://metrics/recent"
	recentLimit      = 10
)

func (s *Server) registerResources() {
	// health://summary - score, latest reading per type, sources
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Health Summary Dashboard",
		Description: "Health score, latest value for each metric type and data source status",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// health://metrics/recent - last 10 metrics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentMetricsURI,
		Name:        "Recent Health Metrics",
		Description: "The 10 most recently recorded health metrics",
		MIMEType:    "application/json",
	}, s.handleRecentMetricsResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Metrics(ctx, u.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	sources, err := s.svc.Sources(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	// Later readings overwrite earlier ones.
	latest := make(map[string]interface{})
	for _, m := range res.Metrics {
		latest[string(m.Type)] = map[string]interface{}{
			"value":       m.Value,
			"unit":        m.Unit,
			"source":      m.Source,
			"recorded_at": m.Timestamp.Format(time.RFC3339),
		}
	}

	connected := 0
	for _, ds := range sources {
		if ds.Connected {
			connected++
		}
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"user":         u.Name,
		"analysis":     res.Analysis,
		"latest":       latest,
		"sources":      sources,
		"summary": map[string]int{
			"total_metric_types": len(latest),
			"connected_sources":  connected,
		},
	}

	return jsonResource(summaryURI, result)
}

func (s *Server) handleRecentMetricsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Metrics(ctx, u.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	metrics := newestFirst(res.Metrics, func(models.HealthMetric) bool { return true }, recentLimit)

	return jsonResource(recentMetricsURI, map[string]interface{}{
		"metrics": metrics,
		"count":   len(metrics),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
