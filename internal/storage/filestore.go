package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"agenda/internal/core"
	"agenda/internal/repository"
)

// FileStore persists snapshots as a single JSON document. It exists for
// setups without SQLite: the file is human-readable and trivially backed up.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Close() error { return nil }

type fileSnapshot struct {
	Active   []fileEvent `json:"active"`
	Archived []fileEvent `json:"archived"`
}

type fileEvent struct {
	Name          string     `json:"name"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time,omitempty"`
	EndTime       string     `json:"end_time,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Priority      string     `json:"priority"`
	BudgetCents   int64      `json:"budget_cents,omitempty"`
	Pinned        bool       `json:"pinned,omitempty"`
	Starred       bool       `json:"starred,omitempty"`
	ReminderDays  int        `json:"reminder_days,omitempty"`
	RecurEnabled  bool       `json:"recur_enabled,omitempty"`
	RecurFreq     string     `json:"recur_frequency,omitempty"`
	RecurInterval int        `json:"recur_interval,omitempty"`
	RecurUntil    string     `json:"recur_until,omitempty"`
	Tasks         []fileTask `json:"tasks,omitempty"`
	ArchivedTasks []fileTask `json:"archived_tasks,omitempty"`
}

type fileTask struct {
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	BudgetCents int64  `json:"budget_cents,omitempty"`
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the target, so a crash mid-write never truncates the data.
func (s *FileStore) Save(ctx context.Context, snap repository.Snapshot) error {
	doc := fileSnapshot{
		Active:   encodeEvents(snap.Active),
		Archived: encodeEvents(snap.Archived),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".agenda-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to file",
		"path", s.path,
		"active", len(snap.Active),
		"archived", len(snap.Archived))
	return nil
}

// Load reads the snapshot file. A missing file yields an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (repository.Snapshot, error) {
	var snap repository.Snapshot

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("read snapshot file: %w", err)
	}

	var doc fileSnapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Active, err = decodeEvents(doc.Active); err != nil {
		return repository.Snapshot{}, err
	}
	if snap.Archived, err = decodeEvents(doc.Archived); err != nil {
		return repository.Snapshot{}, err
	}
	return snap, nil
}

func encodeEvents(events []*core.Event) []fileEvent {
	out := make([]fileEvent, 0, len(events))
	for _, e := range events {
		out = append(out, fileEvent{
			Name:          e.Name,
			Date:          dateColumn(e.Date),
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Notes:         e.Notes,
			Category:      e.Category,
			Tags:          e.Tags,
			Priority:      string(e.Priority),
			BudgetCents:   e.Budget.Cents,
			Pinned:        e.Pinned,
			Starred:       e.Starred,
			ReminderDays:  e.ReminderDays,
			RecurEnabled:  e.Recurrence.Enabled,
			RecurFreq:     string(e.Recurrence.Frequency),
			RecurInterval: e.Recurrence.Interval,
			RecurUntil:    dateColumn(e.Recurrence.Until),
			Tasks:         encodeTasks(e.Tasks),
			ArchivedTasks: encodeTasks(e.ArchivedTasks),
		})
	}
	return out
}

func encodeTasks(tasks []core.Task) []fileTask {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]fileTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, fileTask{
			Description: t.Description,
			Deadline:    dateColumn(t.Deadline),
			Priority:    string(t.Priority),
			Status:      string(t.Status),
			BudgetCents: t.Budget.Cents,
		})
	}
	return out
}

func decodeEvents(in []fileEvent) ([]*core.Event, error) {
	var out []*core.Event
	for _, fe := range in {
		e := &core.Event{
			Name:         fe.Name,
			StartTime:    fe.StartTime,
			EndTime:      fe.EndTime,
			Notes:        fe.Notes,
			Category:     fe.Category,
			Tags:         fe.Tags,
			Priority:     core.Priority(fe.Priority),
			Budget:       core.MoneyFromCents(fe.BudgetCents),
			Pinned:       fe.Pinned,
			Starred:      fe.Starred,
			ReminderDays: fe.ReminderDays,
			Recurrence: core.Recurrence{
				Enabled:   fe.RecurEnabled,
				Frequency: core.Frequency(fe.RecurFreq),
				Interval:  fe.RecurInterval,
			},
		}
		var err error
		if e.Date, err = parseColumn(fe.Date); err != nil {
			return nil, fmt.Errorf("event %q date: %w", fe.Name, err)
		}
		if e.Recurrence.Until, err = parseColumn(fe.RecurUntil); err != nil {
			return nil, fmt.Errorf("event %q recurrence until: %w", fe.Name, err)
		}
		if e.Tasks, err = decodeTasks(fe.Tasks, fe.Name); err != nil {
			return nil, err
		}
		if e.ArchivedTasks, err = decodeTasks(fe.ArchivedTasks, fe.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeTasks(in []fileTask, event string) ([]core.Task, error) {
	var out []core.Task
	for _, ft := range in {
		t := core.Task{
			Description: ft.Description,
			Priority:    core.Priority(ft.Priority),
			Status:      core.Status(ft.Status),
			Budget:      core.MoneyFromCents(ft.BudgetCents),
		}
		var err error
		if t.Deadline, err = parseColumn(ft.Deadline); err != nil {
			return nil, fmt.Errorf("task %q in %q: deadline: %w", ft.Description, event, err)
		}
		out = append(out, t)
	}
	return out, nil
}
