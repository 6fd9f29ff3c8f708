// ABOUTME: MetricStore appends and lists a user's health metrics.
// ABOUTME: The demo user's metrics are seeded on first read.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

// MetricStore persists metrics as one JSON list per user.
type MetricStore struct {
	kv  storage.KV
	opt options
	mu  sync.Mutex
}

// NewMetricStore creates a MetricStore over kv.
func NewMetricStore(kv storage.KV, opts ...Option) *MetricStore {
	return &MetricStore{kv: kv, opt: buildOptions(opts)}
}

// Append validates m, fills in a missing id or timestamp and appends it.
func (s *MetricStore) Append(ctx context.Context, m *models.HealthMetric) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = s.opt.now()
	}
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := MetricsKey(m.UserID)
	list, err := loadList[models.HealthMetric](ctx, s.kv, key)
	if err != nil {
		return err
	}
	return saveList(ctx, s.kv, key, append(list, *m))
}

// Query returns the user's metrics in insertion order.
func (s *MetricStore) Query(ctx context.Context, userID string) ([]models.HealthMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := MetricsKey(userID)
	list, err := loadList[models.HealthMetric](ctx, s.kv, key)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 && userID == models.DemoUserID {
		list = demoMetrics(s.opt.now())
		if err := saveList(ctx, s.kv, key, list); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []models.HealthMetric{}
	}
	return list, nil
}

// Replace overwrites a user's metrics wholesale. Used by import.
func (s *MetricStore) Replace(ctx context.Context, userID string, metrics []models.HealthMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveList(ctx, s.kv, MetricsKey(userID), metrics)
}
