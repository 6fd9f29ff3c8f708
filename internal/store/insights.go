// ABOUTME: InsightStore appends and lists a user's generated insights.
// ABOUTME: The demo user's insights are seeded on first read.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

// InsightStore persists insights as one JSON list per user.
type InsightStore struct {
	kv  storage.KV
	opt options
	mu  sync.Mutex
}

// NewInsightStore creates an InsightStore over kv.
func NewInsightStore(kv storage.KV, opts ...Option) *InsightStore {
	return &InsightStore{kv: kv, opt: buildOptions(opts)}
}

// Append validates in, fills in a missing id or timestamp and appends it.
func (s *InsightStore) Append(ctx context.Context, in *models.HealthInsight) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = s.opt.now()
	}
	if err := in.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := InsightsKey(in.UserID)
	list, err := loadList[models.HealthInsight](ctx, s.kv, key)
	if err != nil {
		return err
	}
	return saveList(ctx, s.kv, key, append(list, *in))
}

// Query returns the user's insights in insertion order.
func (s *InsightStore) Query(ctx context.Context, userID string) ([]models.HealthInsight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := InsightsKey(userID)
	list, err := loadList[models.HealthInsight](ctx, s.kv, key)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 && userID == models.DemoUserID {
		list = demoInsights(s.opt.now())
		if err := saveList(ctx, s.kv, key, list); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []models.HealthInsight{}
	}
	return list, nil
}

// Replace overwrites a user's insights wholesale. Used by import.
func (s *InsightStore) Replace(ctx context.Context, userID string, insights []models.HealthInsight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveList(ctx, s.kv, InsightsKey(userID), insights)
}
