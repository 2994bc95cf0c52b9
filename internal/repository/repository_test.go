package repository

import (
	"errors"
	"testing"

	"agenda/internal/core"
)

func seed(t *testing.T, r *EventRepository, names ...string) {
	t.Helper()
	for i, name := range names {
		e := core.NewEvent(name, core.NewDate(2025, 7, i+1))
		if _, err := r.Create(e); err != nil {
			t.Fatalf("seed %q: %v", name, err)
		}
	}
}

func names(events []*core.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

func assertOrder(t *testing.T, got []*core.Event, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", names(got), want)
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("got %v, want %v", names(got), want)
		}
	}
}

func TestCreate(t *testing.T) {
	r := New()

	created, err := r.Create(core.NewEvent("  Garden Party  ", core.NewDate(2025, 6, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if created.Name != "garden party" {
		t.Errorf("name = %q, want normalized %q", created.Name, "garden party")
	}

	if _, err := r.Create(core.NewEvent("garden party", core.NewDate(2025, 6, 2))); !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("duplicate create: err = %v, want ErrDuplicateName", err)
	}
	if _, err := r.Create(core.NewEvent("   ", core.NewDate(2025, 6, 1))); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank name: err = %v, want ErrEmptyName", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestCreateStoresCopy(t *testing.T) {
	r := New()
	src := core.NewEvent("trip", core.NewDate(2025, 8, 1))
	src.Tasks = []core.Task{core.NewTask("pack")}
	if _, err := r.Create(src); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's value must not reach the stored event.
	src.Tasks[0].Description = "changed outside"
	src.Notes = "changed outside"

	got, err := r.Get("trip")
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes != "" || got.Tasks[0].Description != "pack" {
		t.Error("stored event shares memory with the caller's value")
	}
}

func TestListOrder(t *testing.T) {
	r := New()
	seed(t, r, "c", "a", "b")
	assertOrder(t, r.List(), "c", "a", "b")

	if err := r.Delete("a"); err != nil {
		t.Fatal(err)
	}
	seed(t, r, "d")
	assertOrder(t, r.List(), "c", "b", "d")
}

func TestRename(t *testing.T) {
	r := New()
	seed(t, r, "a", "b", "c")

	if err := r.Rename("b", "B Renamed"); err != nil {
		t.Fatal(err)
	}
	// Position in the iteration order is kept.
	assertOrder(t, r.List(), "a", "b renamed", "c")

	if err := r.Rename("missing", "x"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("rename missing: err = %v", err)
	}
	if err := r.Rename("a", "c"); !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("rename onto taken name: err = %v", err)
	}
	if err := r.Rename("a", "  "); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("rename to blank: err = %v", err)
	}
	// Renaming to the current name is a no-op.
	if err := r.Rename("c", "c"); err != nil {
		t.Errorf("rename to same name: err = %v", err)
	}
}

func TestArchiveRestore(t *testing.T) {
	r := New()
	seed(t, r, "a", "b")

	if err := r.Archive("a"); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, r.List(), "b")
	assertOrder(t, r.ListArchived(), "a")

	// The name is free again in the active namespace.
	seed(t, r, "a")

	// Restoring now collides; the event must stay archived.
	if err := r.Restore("a"); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("restore onto taken name: err = %v", err)
	}
	assertOrder(t, r.ListArchived(), "a")

	if err := r.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if err := r.Restore("a"); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, r.List(), "b", "a")
	if got := r.ListArchived(); len(got) != 0 {
		t.Errorf("archive not emptied: %v", names(got))
	}

	if err := r.Archive("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("archive missing: err = %v", err)
	}
	if err := r.Restore("missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("restore missing: err = %v", err)
	}
}

func TestDeleteArchived(t *testing.T) {
	r := New()
	seed(t, r, "a")
	if err := r.Archive("a"); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteArchived("a"); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteArchived("a"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestUpdateAllOrNothing(t *testing.T) {
	r := New()
	seed(t, r, "a")

	// A failing edit leaves the stored event untouched.
	if _, err := r.SetDuration("a", "18:00", "17:00"); !errors.Is(err, core.ErrInvalidTimeRange) {
		t.Fatalf("err = %v, want ErrInvalidTimeRange", err)
	}
	got, _ := r.Get("a")
	if got.StartTime != "" || got.EndTime != "" {
		t.Errorf("failed edit leaked: start=%q end=%q", got.StartTime, got.EndTime)
	}

	if _, err := r.SetDuration("a", "09:30", "17:00"); err != nil {
		t.Fatal(err)
	}
	got, _ = r.Get("a")
	if got.StartTime != "09:30" || got.EndTime != "17:00" {
		t.Errorf("edit not applied: start=%q end=%q", got.StartTime, got.EndTime)
	}
}

func TestFieldEdits(t *testing.T) {
	r := New()
	seed(t, r, "a")

	if _, err := r.SetNotes("a", "remember the cake"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SetCategory("a", "family"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SetPriority("a", core.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SetBudget("a", core.MoneyFromCents(50000)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SetDate("a", core.NewDate(2025, 12, 24)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddTag("a", "  Holiday "); err != nil {
		t.Fatal(err)
	}

	got, _ := r.Get("a")
	if got.Notes != "remember the cake" || got.Category != "family" {
		t.Errorf("got notes=%q category=%q", got.Notes, got.Category)
	}
	if got.Priority != core.PriorityHigh || got.Budget.Cents != 50000 {
		t.Errorf("got priority=%q budget=%d", got.Priority, got.Budget.Cents)
	}
	if !got.Date.Equal(core.NewDate(2025, 12, 24)) {
		t.Errorf("got date=%s", got.Date)
	}
	if !got.HasTag("holiday") {
		t.Errorf("got tags=%v", got.Tags)
	}

	if _, err := r.SetPriority("a", "urgent"); !errors.Is(err, core.ErrInvalidPriority) {
		t.Errorf("bad priority: err = %v", err)
	}
	if _, err := r.RemoveTag("a", "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("remove missing tag: err = %v", err)
	}
}

func TestToggles(t *testing.T) {
	r := New()
	seed(t, r, "a")

	e, err := r.TogglePin("a")
	if err != nil || !e.Pinned {
		t.Fatalf("pin: %v pinned=%v", err, e.Pinned)
	}
	e, err = r.TogglePin("a")
	if err != nil || e.Pinned {
		t.Fatalf("unpin: %v pinned=%v", err, e.Pinned)
	}
	e, err = r.ToggleStar("a")
	if err != nil || !e.Starred {
		t.Fatalf("star: %v starred=%v", err, e.Starred)
	}
}

func TestSetRecurrence(t *testing.T) {
	r := New()
	seed(t, r, "a") // date 2025-07-01

	rec := core.Recurrence{Enabled: true, Frequency: core.Weekly, Interval: 2}
	if _, err := r.SetRecurrence("a", rec); err != nil {
		t.Fatal(err)
	}

	bad := core.Recurrence{Enabled: true, Frequency: core.Weekly, Interval: 1, Until: core.NewDate(2025, 6, 1)}
	if _, err := r.SetRecurrence("a", bad); !errors.Is(err, core.ErrUntilBeforeDate) {
		t.Fatalf("until before anchor: err = %v", err)
	}
	got, _ := r.Get("a")
	if got.Recurrence.Interval != 2 {
		t.Error("failed recurrence edit replaced the stored rule")
	}
}

func TestSetReminder(t *testing.T) {
	r := New()
	if _, err := r.Create(core.NewEvent("a", core.NewDate(2025, 7, 11))); err != nil {
		t.Fatal(err)
	}
	today := core.NewDate(2025, 7, 1) // 10 days out

	cases := []struct {
		name    string
		days    int
		wantErr bool
	}{
		{"within bound", 10, false},
		{"over bound", 11, true},
		{"negative", -1, true},
		{"zero disables", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.SetReminder("a", tc.days, today)
			if tc.wantErr {
				if !errors.Is(err, core.ErrInvalidReminderDays) {
					t.Errorf("err = %v, want ErrInvalidReminderDays", err)
				}
				return
			}
			if err != nil {
				t.Errorf("err = %v", err)
			}
		})
	}

	t.Run("past event", func(t *testing.T) {
		if _, err := r.SetReminder("a", 1, core.NewDate(2025, 7, 11)); !errors.Is(err, core.ErrInvalidReminderDays) {
			t.Errorf("same-day event: err = %v", err)
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := New()
	seed(t, r, "keep", "archive me")
	if _, err := r.SetNotes("keep", "notes survive"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddTag("keep", "travel"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddTask("keep", core.NewTask("call venue")); err != nil {
		t.Fatal(err)
	}
	if err := r.Archive("archive me"); err != nil {
		t.Fatal(err)
	}

	snap := r.Snapshot()

	restored := New()
	if err := restored.RestoreSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, restored.List(), "keep")
	assertOrder(t, restored.ListArchived(), "archive me")

	got, err := restored.Get("keep")
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes != "notes survive" || !got.HasTag("travel") {
		t.Errorf("got notes=%q tags=%v", got.Notes, got.Tags)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Description != "call venue" {
		t.Errorf("got tasks=%v", got.Tasks)
	}
}

func TestRestoreSnapshotAborts(t *testing.T) {
	r := New()
	seed(t, r, "existing")

	bad := Snapshot{Active: []*core.Event{
		core.NewEvent("ok", core.NewDate(2025, 1, 1)),
		core.NewEvent("  ", core.NewDate(2025, 1, 2)),
	}}
	if err := r.RestoreSnapshot(bad); err == nil {
		t.Fatal("invalid snapshot accepted")
	}
	// The repository must be exactly as it was before the attempt.
	assertOrder(t, r.List(), "existing")
}
