package drivers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

const sqliteUpsert = `INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// SQLiteStore implements kv.Store in a single SQLite table.
// It is the default local medium: one file, no server.
type SQLiteStore struct {
	db     *sql.DB
	prefix string
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path, prefix string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{db: db, prefix: prefix}, nil
}

// Get implements kv.Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	return getValue(ctx, s.db, s.prefix+key)
}

// Set implements kv.Store.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsert, s.prefix+key, value)
	return err
}

// Update implements kv.Updater inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, found, err := getValue(ctx, tx, s.prefix+key)
	if err != nil {
		return err
	}
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, sqliteUpsert, s.prefix+key, next); err != nil {
		return err
	}
	return tx.Commit()
}

// Close implements kv.Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getValue(ctx context.Context, q queryer, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
