// ABOUTME: Shared plumbing for the per-user domain stores built on storage.KV.
// ABOUTME: Records are JSON lists keyed by kind and user id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthai/internal/storage"
)

const (
	metricsPrefix  = "metrics:"
	insightsPrefix = "insights:"
	sourcesPrefix  = "sources:"
	userPrefix     = "user:"
)

// MetricsKey returns the KV key holding a user's metrics.
func MetricsKey(userID string) string { return metricsPrefix + userID }

// InsightsKey returns the KV key holding a user's insights.
func InsightsKey(userID string) string { return insightsPrefix + userID }

// SourcesKey returns the KV key holding a user's data sources.
func SourcesKey(userID string) string { return sourcesPrefix + userID }

// UserKey returns the KV key for an account, case-insensitive on email.
func UserKey(email string) string {
	return userPrefix + strings.ToLower(strings.TrimSpace(email))
}

// KeysFor lists every per-user key, for export and migration.
func KeysFor(userID string) []string {
	return []string{MetricsKey(userID), InsightsKey(userID), SourcesKey(userID)}
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for defaults and demo seeds.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// loadList reads a JSON list, treating a missing key as empty.
func loadList[T any](ctx context.Context, kv storage.KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func saveList[T any](ctx context.Context, kv storage.KV, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
