// ABOUTME: Export and import of one user's complete health data.
// ABOUTME: Import replaces the user's metrics, insights and sources.
package health

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

// Export gathers everything stored for userID.
func (s *Service) Export(ctx context.Context, userID string) (*storage.ExportData, error) {
	res, err := s.Metrics(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	ins, err := s.Insights(ctx, userID)
	if err != nil {
		return nil, err
	}
	src, err := s.Sources(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := storage.NewExportData(userID)
	data.ExportedAt = s.now()
	for i := range res.Metrics {
		data.Metrics = append(data.Metrics, &res.Metrics[i])
	}
	for i := range ins {
		data.Insights = append(data.Insights, &ins[i])
	}
	for i := range src {
		data.Sources = append(data.Sources, &src[i])
	}
	return data, nil
}

// ImportSummary counts imported records.
type ImportSummary struct {
	Metrics  int
	Insights int
	Sources  int
}

// Import validates every record in data and then replaces the stored
// records of data.UserID. Nothing is written if any record is invalid.
// Missing ids and timestamps are filled in as Append would; duplicate ids
// within a list are rejected.
func (s *Service) Import(ctx context.Context, data *storage.ExportData) (*ImportSummary, error) {
	if data == nil || data.UserID == "" {
		return nil, apperr.Validation("User ID is required")
	}

	seen := map[string]bool{}
	metrics := make([]models.HealthMetric, 0, len(data.Metrics))
	for i, m := range data.Metrics {
		if m == nil {
			return nil, apperr.Validation("metric %d is empty", i)
		}
		rec := *m
		rec.UserID = data.UserID
		s.stamp(&rec.ID, &rec.Timestamp)
		if seen[rec.ID] {
			return nil, apperr.Validation("duplicate metric id %q", rec.ID)
		}
		seen[rec.ID] = true
		if err := rec.Validate(); err != nil {
			return nil, classify(err, "import")
		}
		metrics = append(metrics, rec)
	}

	seen = map[string]bool{}
	insights := make([]models.HealthInsight, 0, len(data.Insights))
	for i, in := range data.Insights {
		if in == nil {
			return nil, apperr.Validation("insight %d is empty", i)
		}
		rec := *in
		rec.UserID = data.UserID
		s.stamp(&rec.ID, &rec.Timestamp)
		if seen[rec.ID] {
			return nil, apperr.Validation("duplicate insight id %q", rec.ID)
		}
		seen[rec.ID] = true
		if err := rec.Validate(); err != nil {
			return nil, classify(err, "import")
		}
		insights = append(insights, rec)
	}

	seen = map[string]bool{}
	sources := make([]models.DataSource, 0, len(data.Sources))
	for i, src := range data.Sources {
		if src == nil {
			return nil, apperr.Validation("source %d is empty", i)
		}
		if src.ID == "" {
			return nil, apperr.Validation("source id is required")
		}
		if seen[src.ID] {
			return nil, apperr.Validation("duplicate source id %q", src.ID)
		}
		seen[src.ID] = true
		sources = append(sources, *src)
	}

	if err := s.metrics.Replace(ctx, data.UserID, metrics); err != nil {
		return nil, apperr.Internal(err, "import metrics")
	}
	if err := s.insights.Replace(ctx, data.UserID, insights); err != nil {
		return nil, apperr.Internal(err, "import insights")
	}
	if err := s.sources.Replace(ctx, data.UserID, sources); err != nil {
		return nil, apperr.Internal(err, "import sources")
	}

	return &ImportSummary{Metrics: len(metrics), Insights: len(insights), Sources: len(sources)}, nil
}

// stamp fills an empty id and a zero timestamp.
func (s *Service) stamp(id *string, ts *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if ts.IsZero() {
		*ts = s.now()
	}
}
