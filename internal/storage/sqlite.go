// Package storage persists planner snapshots. Two backends share the same
// contract: a SQLite database and a plain JSON file. Both write the whole
// snapshot at once; the planner is a single-session tool and the snapshot
// is small, so full rewrites are simpler and safer than diffing.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"agenda/internal/core"
	"agenda/internal/repository"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// migrations.
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

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save overwrites the stored snapshot inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap repository.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	if err := insertEvents(ctx, tx, snap.Active, false); err != nil {
		return err
	}
	if err := insertEvents(ctx, tx, snap.Archived, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"active", len(snap.Active),
		"archived", len(snap.Archived))
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, events []*core.Event, archived bool) error {
	const eventSQL = `INSERT INTO events (
		name, date, start_time, end_time, notes, category, tags, priority,
		budget_cents, pinned, starred, reminder_days,
		recur_enabled, recur_frequency, recur_interval, recur_until,
		archived, position
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const taskSQL = `INSERT INTO tasks (
		event_id, description, deadline, priority, status, budget_cents,
		archived, position
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for pos, e := range events {
		tags, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %q: %w", e.Name, err)
		}
		res, err := tx.ExecContext(ctx, eventSQL,
			e.Name, dateColumn(e.Date), e.StartTime, e.EndTime,
			e.Notes, e.Category, string(tags), string(e.Priority),
			e.Budget.Cents, e.Pinned, e.Starred, e.ReminderDays,
			e.Recurrence.Enabled, string(e.Recurrence.Frequency),
			e.Recurrence.Interval, dateColumn(e.Recurrence.Until),
			archived, pos)
		if err != nil {
			return fmt.Errorf("insert event %q: %w", e.Name, err)
		}
		eventID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("event id for %q: %w", e.Name, err)
		}

		for i, t := range e.Tasks {
			if _, err := tx.ExecContext(ctx, taskSQL,
				eventID, t.Description, dateColumn(t.Deadline),
				string(t.Priority), string(t.Status), t.Budget.Cents,
				false, i); err != nil {
				return fmt.Errorf("insert task for %q: %w", e.Name, err)
			}
		}
		for i, t := range e.ArchivedTasks {
			if _, err := tx.ExecContext(ctx, taskSQL,
				eventID, t.Description, dateColumn(t.Deadline),
				string(t.Priority), string(t.Status), t.Budget.Cents,
				true, i); err != nil {
				return fmt.Errorf("insert archived task for %q: %w", e.Name, err)
			}
		}
	}
	return nil
}

// Load reads the stored snapshot. An empty database yields an empty
// snapshot, not an error.
func (s *SQLiteStore) Load(ctx context.Context) (repository.Snapshot, error) {
	var snap repository.Snapshot

	active, err := s.loadEvents(ctx, false)
	if err != nil {
		return snap, err
	}
	archived, err := s.loadEvents(ctx, true)
	if err != nil {
		return snap, err
	}

	snap.Active = active
	snap.Archived = archived
	return snap, nil
}

func (s *SQLiteStore) loadEvents(ctx context.Context, archived bool) ([]*core.Event, error) {
	const eventSQL = `SELECT
		id, name, date, start_time, end_time, notes, category, tags, priority,
		budget_cents, pinned, starred, reminder_days,
		recur_enabled, recur_frequency, recur_interval, recur_until
	FROM events WHERE archived = ? ORDER BY position`

	rows, err := s.db.QueryContext(ctx, eventSQL, archived)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*core.Event
	var ids []int64
	for rows.Next() {
		var (
			id                  int64
			e                   core.Event
			date, until, tags   string
			priority, frequency string
			budgetCents         int64
		)
		if err := rows.Scan(&id, &e.Name, &date, &e.StartTime, &e.EndTime,
			&e.Notes, &e.Category, &tags, &priority,
			&budgetCents, &e.Pinned, &e.Starred, &e.ReminderDays,
			&e.Recurrence.Enabled, &frequency, &e.Recurrence.Interval,
			&until); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Date, err = parseColumn(date); err != nil {
			return nil, fmt.Errorf("event %q date: %w", e.Name, err)
		}
		if e.Recurrence.Until, err = parseColumn(until); err != nil {
			return nil, fmt.Errorf("event %q recurrence until: %w", e.Name, err)
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("event %q tags: %w", e.Name, err)
		}
		e.Priority = core.Priority(priority)
		e.Recurrence.Frequency = core.Frequency(frequency)
		e.Budget = core.MoneyFromCents(budgetCents)

		events = append(events, &e)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	for i, e := range events {
		if err := s.loadTasks(ctx, ids[i], e); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *SQLiteStore) loadTasks(ctx context.Context, eventID int64, e *core.Event) error {
	const taskSQL = `SELECT description, deadline, priority, status,
		budget_cents, archived
	FROM tasks WHERE event_id = ? ORDER BY archived, position`

	rows, err := s.db.QueryContext(ctx, taskSQL, eventID)
	if err != nil {
		return fmt.Errorf("query tasks for %q: %w", e.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t                core.Task
			deadline         string
			priority, status string
			budgetCents      int64
			archived         bool
		)
		if err := rows.Scan(&t.Description, &deadline, &priority, &status,
			&budgetCents, &archived); err != nil {
			return fmt.Errorf("scan task for %q: %w", e.Name, err)
		}
		if t.Deadline, err = parseColumn(deadline); err != nil {
			return fmt.Errorf("task %q deadline: %w", t.Description, err)
		}
		t.Priority = core.Priority(priority)
		t.Status = core.Status(status)
		t.Budget = core.MoneyFromCents(budgetCents)

		if archived {
			e.ArchivedTasks = append(e.ArchivedTasks, t)
		} else {
			e.Tasks = append(e.Tasks, t)
		}
	}
	return rows.Err()
}

// dateColumn encodes a date for storage; the zero date becomes "".
func dateColumn(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseColumn(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}
