package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// PostgresStorage persists bot state in the kv_store table.
// The schema is created by the migrations in internal/database.
type PostgresStorage struct {
	db  *sql.DB
	log *slog.Logger
}

var _ Store = (*PostgresStorage)(nil)

// NewPostgresStorage wraps an open database handle.
func NewPostgresStorage(db *sql.DB, log *slog.Logger) *PostgresStorage {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStorage{db: db, log: log}
}

// Get returns the stored value or ErrNotFound.
func (s *PostgresStorage) Get(ctx context.Context, key Key) (string, error) {
	const query = `SELECT value FROM kv_store WHERE key = $1`

	var value string
	if err := s.db.QueryRowContext(ctx, query, string(key)).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}

		s.log.Error("failed to get value from postgres", slog.String("key", string(key)), slog.Any("error", err))
		return "", fmt.Errorf("select kv value: %w", err)
	}

	return value, nil
}

// Put upserts value under key.
func (s *PostgresStorage) Put(ctx context.Context, key Key, value string) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, string(key), value); err != nil {
		s.log.Error("failed to save value in postgres", slog.String("key", string(key)), slog.Any("error", err))
		return fmt.Errorf("upsert kv value: %w", err)
	}

	return nil
}

// Delete removes key.
func (s *PostgresStorage) Delete(ctx context.Context, key Key) error {
	const query = `DELETE FROM kv_store WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, string(key)); err != nil {
		s.log.Error("failed to delete value from postgres", slog.String("key", string(key)), slog.Any("error", err))
		return fmt.Errorf("delete kv value: %w", err)
	}

	return nil
}
