// ABOUTME: Tests for copying keys between KV backends.
// ABOUTME: Uses memory as source and SQLite as destination.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateKeys(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryKV()
	dst := setupTestDB(t)

	_ = src.Put(ctx, "metrics:u1", []byte(`[{"id":"m1"}]`))
	_ = src.Put(ctx, "insights:u1", []byte(`[]`))

	summary, err := MigrateKeys(ctx, src, dst, []string{"metrics:u1", "insights:u1", "sources:u1"})
	if err != nil {
		t.Fatalf("MigrateKeys failed: %v", err)
	}
	if summary.Copied != 2 || summary.Missing != 1 {
		t.Errorf("summary = %+v, want 2 copied 1 missing", summary)
	}

	got, err := dst.Get(ctx, "metrics:u1")
	if err != nil {
		t.Fatalf("Get from destination failed: %v", err)
	}
	if string(got) != `[{"id":"m1"}]` {
		t.Errorf("destination value = %s", got)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirNonEmpty(dir)
	if err != nil || empty {
		t.Errorf("IsDirNonEmpty(empty) = %v, %v", empty, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	nonEmpty, err := IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Errorf("IsDirNonEmpty(non-empty) = %v, %v", nonEmpty, err)
	}

	missing, err := IsDirNonEmpty(filepath.Join(dir, "nope"))
	if err != nil || missing {
		t.Errorf("IsDirNonEmpty(missing) = %v, %v", missing, err)
	}
}
