// Package settings is the persisted key/value store the extraction engine keeps
// its small pieces of state in (install date, read announcements).
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("settings: key not found")

// Store is a key/value store, Get returns ErrNotFound for absent keys.
//
// note: fault injection point
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// GetJSON reads a json encoded value, found is false if the key is absent.
func GetJSON[T any](ctx context.Context, store Store, key string) (value T, found bool, err error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	err = json.Unmarshal(raw, &value)
	if err != nil {
		return value, false, fmt.Errorf("decode setting '%s': %w", key, err)
	}
	return value, true, nil
}

func SetJSON[T any](ctx context.Context, store Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting '%s': %w", key, err)
	}
	return store.Set(ctx, key, raw)
}
