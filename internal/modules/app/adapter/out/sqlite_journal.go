package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"basecli/internal/modules/app/domain"
	appout "basecli/internal/modules/app/port/out"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteEventJournal struct {
	db *sql.DB
}

func NewSQLiteEventJournal(ctx context.Context, db *sql.DB) (appout.EventJournal, error) {
	journal := &SQLiteEventJournal{db: db}
	const ddl = `
CREATE TABLE IF NOT EXISTS events (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL,
  name TEXT NOT NULL,
  args TEXT NOT NULL,
  at TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create events table: %w", err)
	}
	return journal, nil
}

func (j *SQLiteEventJournal) Append(ctx context.Context, event domain.Event) error {
	args, err := json.Marshal(event.Args)
	if err != nil {
		return fmt.Errorf("marshal event args: %w", err)
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO events (id, name, args, at) VALUES (?, ?, ?, ?)`,
		event.ID, event.Name, string(args), event.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns the most recent events, oldest first.
func (j *SQLiteEventJournal) List(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, name, args, at FROM (
  SELECT seq, id, name, args, at FROM events ORDER BY seq DESC LIMIT ?
) ORDER BY seq ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	out := []domain.Event{}
	for rows.Next() {
		var ev domain.Event
		var args, at string
		if err := rows.Scan(&ev.ID, &ev.Name, &args, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(args), &ev.Args); err != nil {
			return nil, fmt.Errorf("decode event args: %w", err)
		}
		ev.At, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse event time: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
