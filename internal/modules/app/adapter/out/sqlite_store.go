package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"basecli/internal/modules/app/domain"
	appout "basecli/internal/modules/app/port/out"
	apperrors "basecli/internal/platform/errors"
)

// SQLiteStore persists the store sub-object as JSON values keyed by name.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	defined map[string]any
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (appout.StoreBackend, error) {
	store := &SQLiteStore{db: db, defined: map[string]any{}}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS store (
  key TEXT PRIMARY KEY,
  value TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create store table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: store key is required", apperrors.ErrInvalidInput)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal store value: %w", err)
	}
	const stmt = `
INSERT INTO store (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := s.db.ExecContext(ctx, stmt, key, string(payload)); err != nil {
		return fmt.Errorf("upsert store value: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (any, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM store WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query store value: %w", err)
	}
	value, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Has reports a stored, non-null value.
func (s *SQLiteStore) Has(ctx context.Context, key string) (bool, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && value != nil, nil
}

// HasOwn reports whether the key exists, even with a null value.
func (s *SQLiteStore) HasOwn(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM store WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query store key: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Del(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete store value: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Define(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defined[key] = value
	return nil
}

func (s *SQLiteStore) Entries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM store ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}
	defer rows.Close()
	out := []domain.Entry{}
	for rows.Next() {
		var key string
		var raw sql.NullString
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		value, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Entry{Key: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store: %w", err)
	}
	return out, nil
}

func decode(raw sql.NullString) (any, error) {
	if !raw.Valid {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw.String), &value); err != nil {
		return nil, fmt.Errorf("decode store value: %w", err)
	}
	return value, nil
}
