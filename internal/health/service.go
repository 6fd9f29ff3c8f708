// ABOUTME: Service is the single entry point the HTTP, MCP and CLI layers call.
// ABOUTME: It validates input and wires the stores, generator and analyzer together.
package health

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/harperreed/healthai/internal/analysis"
	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/insight"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/harperreed/healthai/internal/store"
)

// Options configures a Service. Zero values select production defaults.
type Options struct {
	Rand    insight.Rand
	Now     func() time.Time
	Latency time.Duration
}

// Service bundles the domain stores with insight generation and analysis.
type Service struct {
	metrics   *store.MetricStore
	insights  *store.InsightStore
	sources   *store.SourceRegistry
	generator *insight.Generator
	analyzer  *analysis.Analyzer
	now       func() time.Time
	latency   time.Duration
	rand      insight.Rand
}

// New creates a Service storing everything in kv.
func New(kv storage.KV, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now().UnixNano()))
	}
	// The generator and SimulateMetric draw from the same source.
	shared := insight.NewLockedRand(opts.Rand)

	metrics := store.NewMetricStore(kv, store.WithClock(opts.Now))
	insights := store.NewInsightStore(kv, store.WithClock(opts.Now))

	return &Service{
		metrics:  metrics,
		insights: insights,
		sources:  store.NewSourceRegistry(kv),
		generator: insight.NewGenerator(insights, shared,
			insight.WithClock(opts.Now),
			insight.WithLatency(opts.Latency)),
		analyzer: analysis.NewAnalyzer(metrics, insights, opts.Now),
		now:      opts.Now,
		latency:  opts.Latency,
		rand:     shared,
	}
}

// MetricInput is an unvalidated request to record a metric.
type MetricInput struct {
	UserID    string
	Type      string
	Value     *float64
	Unit      string
	Source    string
	Timestamp time.Time
}

// MetricsResult is returned by Metrics.
type MetricsResult struct {
	Metrics  []models.HealthMetric `json:"metrics"`
	Count    int                   `json:"count"`
	Analysis *analysis.Result      `json:"analysis,omitempty"`
}

// AddMetric validates in and records it.
func (s *Service) AddMetric(ctx context.Context, in MetricInput) (*models.HealthMetric, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	if in.Type == "" || in.Value == nil || in.Unit == "" || in.Source == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if !models.IsValidMetricType(in.Type) {
		return nil, apperr.Validation("Unknown metric type %q", in.Type)
	}

	m := &models.HealthMetric{
		UserID:    in.UserID,
		Type:      models.MetricType(in.Type),
		Value:     *in.Value,
		Unit:      in.Unit,
		Source:    in.Source,
		Timestamp: in.Timestamp,
	}
	if err := s.metrics.Append(ctx, m); err != nil {
		return nil, classify(err, "add metric")
	}
	return m, nil
}

// Metrics lists a user's metrics, optionally with an analysis.
func (s *Service) Metrics(ctx context.Context, userID string, analyze bool) (*MetricsResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}

	ms, err := s.metrics.Query(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "query metrics")
	}
	res := &MetricsResult{Metrics: ms, Count: len(ms)}

	if analyze {
		a, err := s.analyzer.Analyze(ctx, userID)
		if err != nil {
			return nil, apperr.Internal(err, "analyze")
		}
		res.Analysis = a
	}
	return res, nil
}

// Analyze computes the health score summary for a user.
func (s *Service) Analyze(ctx context.Context, userID string) (*analysis.Result, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	res, err := s.analyzer.Analyze(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "analyze")
	}
	return res, nil
}

// Insights lists a user's insights.
func (s *Service) Insights(ctx context.Context, userID string) ([]models.HealthInsight, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	ins, err := s.insights.Query(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "query insights")
	}
	return ins, nil
}

// GenerateInsight creates and records a new insight for a user.
func (s *Service) GenerateInsight(ctx context.Context, userID, query string) (*models.HealthInsight, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	in, err := s.generator.Generate(ctx, userID, query)
	if err != nil {
		return nil, classify(err, "generate insight")
	}
	return in, nil
}

// ChatReply is the assistant's answer to a message.
type ChatReply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat answers message using the user's own data.
func (s *Service) Chat(ctx context.Context, userID, message string) (*ChatReply, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("User ID and message are required")
	}
	if err := insight.Delay(ctx, s.latency); err != nil {
		return nil, err
	}

	ms, err := s.metrics.Query(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "query metrics")
	}
	ins, err := s.insights.Query(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "query insights")
	}
	return &ChatReply{Response: insight.Respond(message, ms, ins), Timestamp: s.now()}, nil
}

// Sources lists a user's data sources.
func (s *Service) Sources(ctx context.Context, userID string) ([]models.DataSource, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	src, err := s.sources.Query(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "query sources")
	}
	return src, nil
}

// simulatedPerConnect is how many demo readings a source connection produces.
const simulatedPerConnect = 3

// ConnectSource marks sourceID active for u. Demo users also receive a
// handful of simulated readings, as a freshly connected device would sync.
func (s *Service) ConnectSource(ctx context.Context, u *models.User, sourceID string) ([]models.DataSource, error) {
	if u == nil || u.ID == "" {
		return nil, apperr.Validation("User ID is required")
	}
	if strings.TrimSpace(sourceID) == "" {
		return nil, apperr.Validation("Source ID is required")
	}

	connected := true
	status := models.SourceActive
	lastSync := "Just now"
	patch := models.SourcePatch{Connected: &connected, Status: &status, LastSync: &lastSync}
	if err := s.sources.Update(ctx, u.ID, sourceID, patch); err != nil {
		return nil, apperr.Internal(err, "update source")
	}

	if u.IsDemo {
		for i := 0; i < simulatedPerConnect; i++ {
			if _, err := s.SimulateMetric(ctx, u); err != nil {
				return nil, err
			}
		}
	}
	return s.Sources(ctx, u.ID)
}

type simulatedRange struct {
	Type     models.MetricType
	Min, Max float64
}

var simulatedRanges = []simulatedRange{
	{models.MetricHeartRate, 60, 100},
	{models.MetricSteps, 5000, 15000},
	{models.MetricSleep, 6, 9},
	{models.MetricWeight, 60, 90},
}

// SimulateMetric records one random plausible reading for a demo user.
func (s *Service) SimulateMetric(ctx context.Context, u *models.User) (*models.HealthMetric, error) {
	if u == nil || !u.IsDemo {
		return nil, apperr.Validation("Not a demo user")
	}

	r := simulatedRanges[s.rand.Intn(len(simulatedRanges))]
	// Tenths between Min and Max inclusive.
	steps := int((r.Max - r.Min) * 10)
	value := math.Round((r.Min+float64(s.rand.Intn(steps+1))/10)*10) / 10

	m := models.NewMetric(u.ID, r.Type, value, "Demo Device").WithTimestamp(s.now())
	if err := s.metrics.Append(ctx, m); err != nil {
		return nil, classify(err, "simulate metric")
	}
	return m, nil
}

// classify turns model validation failures into apperr validation errors
// and wraps anything else as internal.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return apperr.Validation("%s", fe.Error())
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperr.Internal(err, op)
}
