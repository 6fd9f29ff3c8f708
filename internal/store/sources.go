// ABOUTME: SourceRegistry lists and patches a user's connected data sources.
// ABOUTME: Updating an unknown source id leaves the registry untouched.
package store

import (
	"context"
	"sync"

	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

// SourceRegistry persists data sources as one JSON list per user.
type SourceRegistry struct {
	kv storage.KV
	mu sync.Mutex
}

// NewSourceRegistry creates a SourceRegistry over kv.
func NewSourceRegistry(kv storage.KV) *SourceRegistry {
	return &SourceRegistry{kv: kv}
}

// Query returns the user's sources, seeding the demo user's on first read.
func (r *SourceRegistry) Query(ctx context.Context, userID string) ([]models.DataSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, userID)
}

// Update merges patch into the source with sourceID. Unknown ids are ignored.
func (r *SourceRegistry) Update(ctx context.Context, userID, sourceID string, patch models.SourcePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == sourceID {
			patch.Apply(&list[i])
			return saveList(ctx, r.kv, SourcesKey(userID), list)
		}
	}
	return nil
}

// Replace overwrites a user's sources wholesale. Used by import.
func (r *SourceRegistry) Replace(ctx context.Context, userID string, sources []models.DataSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveList(ctx, r.kv, SourcesKey(userID), sources)
}

func (r *SourceRegistry) load(ctx context.Context, userID string) ([]models.DataSource, error) {
	key := SourcesKey(userID)
	list, err := loadList[models.DataSource](ctx, r.kv, key)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 && userID == models.DemoUserID {
		list = demoSources()
		if err := saveList(ctx, r.kv, key, list); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []models.DataSource{}
	}
	return list, nil
}
