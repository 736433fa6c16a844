package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tidwall/buntdb"
)

// BuntStorage persists bot state in an embedded BuntDB file.
type BuntStorage struct {
	db  *buntdb.DB
	log *slog.Logger
}

var _ Store = (*BuntStorage)(nil)

// OpenBuntStorage opens (or creates) the database at path. Use ":memory:" for a
// non-persistent database.
func OpenBuntStorage(path string, log *slog.Logger) (*BuntStorage, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buntdb %q: %w", path, err)
	}

	return &BuntStorage{db: db, log: log}, nil
}

// Get returns the stored value or ErrNotFound.
func (s *BuntStorage) Get(_ context.Context, key Key) (string, error) {
	var value string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(string(key))
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return "", ErrNotFound
		}

		s.log.Error("failed to get value from buntdb", "key", key, "error", err)
		return "", err
	}

	return value, nil
}

// Put stores value under key.
func (s *BuntStorage) Put(_ context.Context, key Key, value string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(string(key), value, nil)
		return err
	})
	if err != nil {
		s.log.Error("failed to save value in buntdb", "key", key, "error", err)
		return err
	}

	return nil
}

// Delete removes key.
func (s *BuntStorage) Delete(_ context.Context, key Key) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(string(key))
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		s.log.Error("failed to delete value from buntdb", "key", key, "error", err)
		return err
	}

	return nil
}

// HealthCheck runs an empty read transaction.
func (s *BuntStorage) HealthCheck(_ context.Context) error {
	return s.db.View(func(tx *buntdb.Tx) error { return nil })
}

// Close closes the underlying database file.
func (s *BuntStorage) Close() error {
	return s.db.Close()
}
