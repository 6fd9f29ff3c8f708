// ABOUTME: Badger KV backend for single-node on-disk storage.
// ABOUTME: An empty directory opens an in-memory instance.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// BadgerKV stores health blobs in a Badger database.
type BadgerKV struct {
	db *badger.DB
}

// Compile-time check that BadgerKV implements KV.
var _ KV = (*BadgerKV)(nil)

// OpenBadger opens (or creates) a Badger database in dir.
// An empty dir yields an in-memory database.
func OpenBadger(dir string) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerKV{db: db}, nil
}

// Get returns the blob stored under key.
func (b *BadgerKV) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key.
func (b *BadgerKV) Put(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close closes the Badger database.
func (b *BadgerKV) Close() error {
	return b.db.Close()
}
