// ABOUTME: Data migration between KV storage backends.
// ABOUTME: Copies a known set of keys from source to destination.

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated keys.
type MigrateSummary struct {
	Copied  int
	Missing int
}

// MigrateKeys copies each key from src to dst. Keys absent from src are
// counted as missing and skipped; existing values in dst are overwritten.
func MigrateKeys(ctx context.Context, src, dst KV, keys []string) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	for _, key := range keys {
		value, err := src.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				summary.Missing++
				continue
			}
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if err := dst.Put(ctx, key, value); err != nil {
			return nil, fmt.Errorf("write %s: %w", key, err)
		}
		summary.Copied++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
