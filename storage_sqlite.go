package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL
)`

type sqliteStore struct {
	db *sqlx.DB
}

type blobRow struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newSQLiteStore(ctx context.Context, path string) (*sqliteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// One writer keeps SQLite from reporting SQLITE_BUSY under rapid drags.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, blobSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: migrate: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row blobRow
	err := s.db.GetContext(ctx, &row, `SELECT key, value, updated_at FROM blobs WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: get %s: %w", key, err)
	}
	return row.Value, nil
}

func (s *sqliteStore) Put(ctx context.Context, key string, value []byte) error {
	row := blobRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("sqlite store: put %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
