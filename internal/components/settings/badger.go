package settings

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("components/settings")

// BadgerStore persists settings in a badger database.
type BadgerStore struct {
	db     *badger.DB
	prefix string
}

// OpenBadgerStore opens (or creates) a badger database in `dir`, an empty dir
// keeps everything in memory.
func OpenBadgerStore(dir string) (BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return BadgerStore{}, err
	}
	return NewBadgerStore(db, "settings:"), nil
}

// NewBadgerStore wraps an existing database, every key is prefixed with `prefix`.
func NewBadgerStore(db *badger.DB, prefix string) BadgerStore {
	return BadgerStore{db: db, prefix: prefix}
}

func (s BadgerStore) Close() error {
	return s.db.Close()
}

func (s BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := tracer.Start(ctx, "badger:Get")
	defer span.End()
	span.SetAttributes(attribute.String("settings.key", key))

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(s.prefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read setting")
		return nil, err
	}
	return value, nil
}

func (s BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	_, span := tracer.Start(ctx, "badger:Set")
	defer span.End()
	span.SetAttributes(attribute.String("settings.key", key))

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(s.prefix+key), value)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write setting")
		return err
	}
	return nil
}
