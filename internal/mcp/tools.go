// ABOUTME: MCP tool implementations for health metrics, insights and sources.
// ABOUTME: Every tool acts on the server's session user.
package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_metric",
		Description: "Record a health metric (heart_rate, steps, sleep, weight, blood_pressure, temperature)",
	}, s.handleAddMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List recent health metrics, newest first, optionally filtered by type",
	}, s.handleListMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_health",
		Description: "Compute the health score and a summary of the last 24 hours",
	}, s.handleAnalyze)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_insights",
		Description: "List generated health insights, newest first",
	}, s.handleListInsights)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_insight",
		Description: "Generate and store a new health insight",
	}, s.handleGenerateInsight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_health_assistant",
		Description: "Ask the health assistant a question about sleep, heart rate, activity or weight",
	}, s.handleAsk)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sources",
		Description: "List connected health data sources",
	}, s.handleListSources)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "connect_source",
		Description: "Connect a health data source by ID",
	}, s.handleConnectSource)
}

// Tool input/output types

type addMetricInput struct {
	MetricType string  `json:"metric_type" jsonschema:"Type of metric: heart_rate, steps, sleep, weight, blood_pressure or temperature"`
	Value      float64 `json:"value" jsonschema:"The metric value"`
	Unit       string  `json:"unit,omitempty" jsonschema:"Unit of measurement, defaults to the type's standard unit"`
	Source     string  `json:"source,omitempty" jsonschema:"Where the reading came from, defaults to MCP"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type metricOutput struct {
	ID         string  `json:"id"`
	MetricType string  `json:"metric_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Message    string  `json:"message"`
}

type listMetricsInput struct {
	MetricType string `json:"metric_type,omitempty" jsonschema:"Filter by metric type"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type emptyInput struct{}

type listInsightsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type generateInsightInput struct {
	Query string `json:"query,omitempty" jsonschema:"Optional focus for the insight"`
}

type askInput struct {
	Message string `json:"message" jsonschema:"The question for the assistant"`
}

type askOutput struct {
	Response string `json:"response"`
}

type connectSourceInput struct {
	SourceID string `json:"source_id" jsonschema:"Data source ID, e.g. google-fit"`
}

// Tool handlers

func (s *Server) handleAddMetric(ctx context.Context, req *mcp.CallToolRequest, input addMetricInput) (*mcp.CallToolResult, metricOutput, error) {
	u, err := s.user()
	if err != nil {
		return nil, metricOutput{}, err
	}
	if !models.IsValidMetricType(input.MetricType) {
		return nil, metricOutput{}, fmt.Errorf("unknown metric type: %s", input.MetricType)
	}

	if input.Unit == "" {
		input.Unit = models.MetricUnits[models.MetricType(input.MetricType)]
	}
	if input.Source == "" {
		input.Source = "MCP"
	}

	var recordedAt time.Time
	if input.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, input.RecordedAt)
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04", input.RecordedAt)
		}
		if err != nil {
			return nil, metricOutput{}, fmt.Errorf("invalid recorded_at %q: use RFC 3339 or YYYY-MM-DD HH:MM", input.RecordedAt)
		}
		recordedAt = t
	}

	value := input.Value
	m, err := s.svc.AddMetric(ctx, health.MetricInput{
		UserID:    u.ID,
		Type:      input.MetricType,
		Value:     &value,
		Unit:      input.Unit,
		Source:    input.Source,
		Timestamp: recordedAt,
	})
	if err != nil {
		return nil, metricOutput{}, toolError("add metric", err)
	}

	return nil, metricOutput{
		ID:         m.ID,
		MetricType: input.MetricType,
		Value:      m.Value,
		Unit:       m.Unit,
		Message:    fmt.Sprintf("Added %s: %s %s (ID: %s)", input.MetricType, strconv.FormatFloat(m.Value, 'f', -1, 64), m.Unit, shortID(m.ID)),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	if input.MetricType != "" && !models.IsValidMetricType(input.MetricType) {
		return nil, nil, fmt.Errorf("unknown metric type: %s", input.MetricType)
	}

	res, err := s.svc.Metrics(ctx, u.ID, false)
	if err != nil {
		return nil, nil, toolError("list metrics", err)
	}

	metrics := newestFirst(res.Metrics, func(m models.HealthMetric) bool {
		return input.MetricType == "" || string(m.Type) == input.MetricType
	}, input.Limit)
	if len(metrics) == 0 {
		return nil, map[string]interface{}{"message": "No metrics found."}, nil
	}
	return nil, map[string]interface{}{"metrics": metrics, "count": len(metrics)}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	res, err := s.svc.Analyze(ctx, u.ID)
	if err != nil {
		return nil, nil, toolError("analyze", err)
	}
	return nil, res, nil
}

func (s *Server) handleListInsights(ctx context.Context, req *mcp.CallToolRequest, input listInsightsInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	ins, err := s.svc.Insights(ctx, u.ID)
	if err != nil {
		return nil, nil, toolError("list insights", err)
	}

	ins = newestFirst(ins, func(models.HealthInsight) bool { return true }, input.Limit)
	if len(ins) == 0 {
		return nil, map[string]interface{}{"message": "No insights found."}, nil
	}
	return nil, map[string]interface{}{"insights": ins, "count": len(ins)}, nil
}

func (s *Server) handleGenerateInsight(ctx context.Context, req *mcp.CallToolRequest, input generateInsightInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	in, err := s.svc.GenerateInsight(ctx, u.ID, input.Query)
	if err != nil {
		return nil, nil, toolError("generate insight", err)
	}
	return nil, in, nil
}

func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input askInput) (*mcp.CallToolResult, askOutput, error) {
	u, err := s.user()
	if err != nil {
		return nil, askOutput{}, err
	}
	reply, err := s.svc.Chat(ctx, u.ID, input.Message)
	if err != nil {
		return nil, askOutput{}, toolError("ask", err)
	}
	return nil, askOutput{Response: reply.Response}, nil
}

func (s *Server) handleListSources(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	src, err := s.svc.Sources(ctx, u.ID)
	if err != nil {
		return nil, nil, toolError("list sources", err)
	}
	if len(src) == 0 {
		return nil, map[string]interface{}{"message": "No data sources found."}, nil
	}
	return nil, map[string]interface{}{"sources": src, "count": len(src)}, nil
}

func (s *Server) handleConnectSource(ctx context.Context, req *mcp.CallToolRequest, input connectSourceInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user()
	if err != nil {
		return nil, nil, err
	}
	src, err := s.svc.ConnectSource(ctx, u, input.SourceID)
	if err != nil {
		return nil, nil, toolError("connect source", err)
	}
	for _, ds := range src {
		if ds.ID == input.SourceID {
			return nil, map[string]interface{}{"message": "Connected " + ds.Name, "source": ds}, nil
		}
	}
	return nil, map[string]interface{}{"message": "Unknown source: " + input.SourceID}, nil
}

// toolError surfaces user-facing messages and hides internal causes.
func toolError(op string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("%s", apperr.Message(err, op+" failed"))
}

// newestFirst returns up to limit matching items in reverse insertion order.
func newestFirst[T any](items []T, keep func(T) bool, limit int) []T {
	if limit <= 0 {
		limit = defaultListLimit
	}
	out := make([]T, 0, limit)
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
