// ABOUTME: HTTP handlers for metrics, insights, chat and data sources.
// ABOUTME: Request shapes follow the dashboard client: userId in query or body.
package api

import (
	"net/http"
	"time"

	"github.com/harperreed/healthai/internal/analysis"
	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/models"
	"github.com/labstack/echo/v4"
)

type metricsResponse struct {
	Success  bool                  `json:"success"`
	Metrics  []models.HealthMetric `json:"metrics"`
	Count    int                   `json:"count"`
	Analysis *analysis.Result      `json:"analysis,omitempty"`
}

type addMetricRequest struct {
	UserID string   `json:"userId"`
	Type   string   `json:"type"`
	Value  *float64 `json:"value"`
	Unit   string   `json:"unit"`
	Source string   `json:"source"`
}

type addMetricResponse struct {
	Success bool                 `json:"success"`
	Metric  *models.HealthMetric `json:"metric"`
	Message string               `json:"message"`
}

type insightsResponse struct {
	Success  bool                   `json:"success"`
	Insights []models.HealthInsight `json:"insights"`
	Count    int                    `json:"count"`
}

type generateInsightRequest struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
}

type generateInsightResponse struct {
	Success bool                  `json:"success"`
	Insight *models.HealthInsight `json:"insight"`
	Message string                `json:"message"`
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type chatResponse struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type sourcesResponse struct {
	Success bool                `json:"success"`
	Sources []models.DataSource `json:"sources"`
	Count   int                 `json:"count,omitempty"`
	Message string              `json:"message,omitempty"`
}

type connectSourceRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleListMetrics(c echo.Context) error {
	res, err := s.svc.Metrics(c.Request().Context(), c.QueryParam("userId"), c.QueryParam("analyze") == "true")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metricsResponse{
		Success:  true,
		Metrics:  res.Metrics,
		Count:    res.Count,
		Analysis: res.Analysis,
	})
}

func (s *Server) handleAddMetric(c echo.Context) error {
	var req addMetricRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	m, err := s.svc.AddMetric(c.Request().Context(), health.MetricInput{
		UserID: req.UserID,
		Type:   req.Type,
		Value:  req.Value,
		Unit:   req.Unit,
		Source: req.Source,
	})
	if err != nil {
		return err
	}
	s.metrics.MetricsRecorded.WithLabelValues(string(m.Type)).Inc()
	return c.JSON(http.StatusOK, addMetricResponse{Success: true, Metric: m, Message: "Health metric added successfully"})
}

func (s *Server) handleListInsights(c echo.Context) error {
	ins, err := s.svc.Insights(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insightsResponse{Success: true, Insights: ins, Count: len(ins)})
}

func (s *Server) handleGenerateInsight(c echo.Context) error {
	var req generateInsightRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	in, err := s.svc.GenerateInsight(c.Request().Context(), req.UserID, req.Query)
	if err != nil {
		return err
	}
	s.metrics.InsightsGenerated.Inc()
	return c.JSON(http.StatusOK, generateInsightResponse{Success: true, Insight: in, Message: "New insight generated successfully"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	reply, err := s.svc.Chat(c.Request().Context(), req.UserID, req.Message)
	if err != nil {
		return err
	}
	s.metrics.ChatMessages.Inc()
	return c.JSON(http.StatusOK, chatResponse{Success: true, Response: reply.Response, Timestamp: reply.Timestamp})
}

func (s *Server) handleListSources(c echo.Context) error {
	src, err := s.svc.Sources(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sourcesResponse{Success: true, Sources: src, Count: len(src)})
}

func (s *Server) handleConnectSource(c echo.Context) error {
	var req connectSourceRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	u, err := s.resolveUser(c, req.UserID)
	if err != nil {
		return err
	}
	src, err := s.svc.ConnectSource(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sourcesResponse{Success: true, Sources: src, Message: "Data source connected"})
}

// resolveUser prefers the bearer session and falls back to a bare user id.
func (s *Server) resolveUser(c echo.Context, userID string) (*models.User, error) {
	if bearerToken(c) != "" {
		_, sess, err := s.bearerSession(c)
		if err != nil {
			return nil, err
		}
		u, _ := sess.Current()
		return u, nil
	}
	if userID == "" {
		return nil, apperr.Validation("User ID is required")
	}
	if userID == models.DemoUserID {
		return models.DemoUser(), nil
	}
	return &models.User{ID: userID}, nil
}
