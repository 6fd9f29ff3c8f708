// ABOUTME: Contract tests shared by every KV backend.
// ABOUTME: Redis runs only when HEALTHAI_TEST_REDIS_ADDR is set.
package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func backends(t *testing.T) map[string]KV {
	t.Helper()

	bk, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	t.Cleanup(func() { _ = bk.Close() })

	out := map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": setupTestDB(t),
		"badger": bk,
	}

	if addr := os.Getenv("HEALTHAI_TEST_REDIS_ADDR"); addr != "" {
		rk, err := OpenRedis(context.Background(), RedisOptions{Addr: addr, Prefix: "healthai-test:" + t.Name() + ":"})
		if err != nil {
			t.Fatalf("OpenRedis failed: %v", err)
		}
		t.Cleanup(func() { _ = rk.Close() })
		out["redis"] = rk
	}
	return out
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := kv.Put(ctx, "metrics:u1", []byte(`[1]`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := kv.Get(ctx, "metrics:u1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !bytes.Equal(got, []byte(`[1]`)) {
				t.Errorf("Get = %s, want [1]", got)
			}

			// Overwrite
			if err := kv.Put(ctx, "metrics:u1", []byte(`[1,2]`)); err != nil {
				t.Fatalf("Put overwrite failed: %v", err)
			}
			got, _ = kv.Get(ctx, "metrics:u1")
			if !bytes.Equal(got, []byte(`[1,2]`)) {
				t.Errorf("Get after overwrite = %s, want [1,2]", got)
			}

			// Keys are independent
			if _, err := kv.Get(ctx, "metrics:u2"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(metrics:u2) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryKVCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	buf := []byte("abc")
	_ = kv.Put(ctx, "k", buf)
	buf[0] = 'z'

	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %s", got)
	}
	got[1] = 'z'
	again, _ := kv.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased store: %s", again)
	}
	if kv.Len() != 1 {
		t.Errorf("Len = %d, want 1", kv.Len())
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "healthai.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Put(ctx, "user:a@b.co", []byte(`{"id":"u"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_ = db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	got, err := db.Get(ctx, "user:a@b.co")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != `{"id":"u"}` {
		t.Errorf("Get = %s", got)
	}
}

func TestDataDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	if got := DataDir(); got != "/tmp/xdg-data/healthai" {
		t.Errorf("DataDir = %s", got)
	}
	if got := DBPath(DataDir()); got != "/tmp/xdg-data/healthai/healthai.db" {
		t.Errorf("DBPath = %s", got)
	}
}
