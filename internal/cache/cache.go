// Package cache keeps results of expensive computations (period-law fits,
// habitable-zone edges) in a SQLite file keyed by a content signature of
// their inputs.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed cache. Entries older than the TTL read as misses;
// a zero TTL never expires.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open creates or opens the cache database at path.
func Open(path string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect cache: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache schema: %w", err)
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the payload stored under key. ok is false on a miss or an
// expired entry.
func (s *Store) Load(ctx context.Context, key Key) ([]byte, bool, error) {
	var (
		payload []byte
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created FROM entries WHERE key = ?`, key.Hash,
	).Scan(&payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache load %s: %w", key, err)
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(0, created)) > s.ttl {
		return nil, false, nil
	}
	return payload, true, nil
}

// Save stores payload under key, replacing any previous entry.
func (s *Store) Save(ctx context.Context, key Key, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (key, kind, payload, created) VALUES (?, ?, ?, ?)`,
		key.Hash, key.Kind, payload, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("cache save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Invalidate(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key.Hash); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", key, err)
	}
	return nil
}

// Purge deletes every entry of kind, or all entries when kind is empty, and
// reports how many were removed.
func (s *Store) Purge(ctx context.Context, kind string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if kind == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE kind = ?`, kind)
	}
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

// LoadJSON decodes a cached value into v.
func (s *Store) LoadJSON(ctx context.Context, key Key, v any) (bool, error) {
	data, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SaveJSON(ctx context.Context, key Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.Save(ctx, key, data)
}
