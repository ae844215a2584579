// internal/store/badger.go
//
// Embedded key-value run store on BadgerDB.
//
// Layout: one key per run, "run/<id>" → JSON-encoded Record. List and Summary
// scan the "run/" prefix; run counts are small enough that ordering and
// aggregation happen in memory with the same helpers MemoryRecords uses.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

var runPrefix = []byte("run/")

func runKey(id string) []byte { return append(append([]byte(nil), runPrefix...), id...) }

// Badger is a Records implementation on a BadgerDB directory.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (creating if needed) the BadgerDB directory at dir. An
// empty dir opens an in-memory database.
func OpenBadger(dir string) (*Badger, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	db, err := badger.Open(opts.WithLogger(nil).WithNumVersionsToKeep(1))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

// Close releases the database directory lock.
func (b *Badger) Close() error { return b.db.Close() }

func (b *Badger) Save(_ context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	val, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode run: %w", err)
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(r.ID), val)
	}); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.ID, nil
}

func (b *Badger) Get(_ context.Context, id string) (Record, error) {
	var r Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error { return json.Unmarshal(val, &r) })
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

func (b *Badger) List(ctx context.Context, limit int) ([]Record, error) {
	runs, err := b.all(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(runs, limit), nil
}

func (b *Badger) Summary(ctx context.Context) ([]Stats, error) {
	runs, err := b.all(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(runs), nil
}

// all decodes every stored run.
func (b *Badger) all(ctx context.Context) ([]Record, error) {
	var runs []Record
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = runPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(runPrefix); it.ValidForPrefix(runPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Record
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}
