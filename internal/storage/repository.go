// Package storage provides the SQLite-backed snapshot store. The whole
// ledger document lives in a single row; schema migrations cover the
// table shape only, the document's own version is handled by the state
// package.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kakeibo/internal/state"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements store.SnapshotStore.
func (s *SQLiteStore) Load(ctx context.Context) (state.Snapshot, bool, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshot WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return state.Snapshot{}, false, nil
	}
	if err != nil {
		return state.Snapshot{}, false, fmt.Errorf("read snapshot row: %w", err)
	}
	return state.Decode([]byte(document)), true, nil
}

// Save implements store.SnapshotStore.
func (s *SQLiteStore) Save(ctx context.Context, snap state.Snapshot) error {
	raw, err := state.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, document, schema_version, updated_at)
		VALUES (1, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at`,
		string(raw), snap.SchemaVersion)
	if err != nil {
		return fmt.Errorf("upsert snapshot row: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"schema_version", snap.SchemaVersion,
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions))

	return nil
}
