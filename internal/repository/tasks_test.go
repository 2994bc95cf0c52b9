package repository

import (
	"errors"
	"testing"

	"agenda/internal/core"
	"agenda/internal/services"
)

func seedWithTasks(t *testing.T, descriptions ...string) *EventRepository {
	t.Helper()
	r := New()
	if _, err := r.Create(core.NewEvent("launch", core.NewDate(2025, 9, 15))); err != nil {
		t.Fatal(err)
	}
	for _, d := range descriptions {
		if _, err := r.AddTask("launch", core.NewTask(d)); err != nil {
			t.Fatalf("add %q: %v", d, err)
		}
	}
	return r
}

func taskNames(tasks []core.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Description
	}
	return out
}

func TestAddTask(t *testing.T) {
	r := seedWithTasks(t)

	task := core.NewTask("write invitations")
	task.Deadline = core.NewDate(2025, 9, 10)
	res, err := r.AddTask("launch", task)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeadlineCleared {
		t.Error("valid deadline flagged as cleared")
	}

	if _, err := r.AddTask("launch", core.NewTask("  ")); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank description: err = %v", err)
	}
	if _, err := r.AddTask("missing", core.NewTask("x")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing event: err = %v", err)
	}

	tasks, _ := r.Tasks("launch", false)
	if len(tasks) != 1 {
		t.Fatalf("got %v", taskNames(tasks))
	}
}

func TestAddTaskDeadlinePastEventDate(t *testing.T) {
	r := seedWithTasks(t) // event date 2025-09-15

	task := core.NewTask("post-mortem notes")
	task.Deadline = core.NewDate(2025, 9, 20)
	res, err := r.AddTask("launch", task)
	if err != nil {
		t.Fatal(err)
	}
	// Lenient policy: the task is kept, the offending deadline dropped,
	// and the caller told so it can warn.
	if !res.DeadlineCleared {
		t.Error("deadline past event date not flagged")
	}
	if !res.Task.Deadline.IsZero() {
		t.Errorf("deadline = %s, want cleared", res.Task.Deadline)
	}

	tasks, _ := r.Tasks("launch", false)
	if len(tasks) != 1 || !tasks[0].Deadline.IsZero() {
		t.Errorf("stored tasks = %v", tasks)
	}
}

func TestAddTaskDeadlineRecurringEvent(t *testing.T) {
	r := seedWithTasks(t)
	rec := core.Recurrence{Enabled: true, Frequency: core.Weekly, Interval: 1}
	if _, err := r.SetRecurrence("launch", rec); err != nil {
		t.Fatal(err)
	}

	// A recurring event has no single end, so any deadline is in bounds.
	task := core.NewTask("rotate host")
	task.Deadline = core.NewDate(2026, 3, 1)
	res, err := r.AddTask("launch", task)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeadlineCleared || !res.Task.Deadline.Equal(task.Deadline) {
		t.Errorf("got %+v", res)
	}
}

func TestUpdateTask(t *testing.T) {
	r := seedWithTasks(t, "old description")

	updated := core.NewTask("new description")
	updated.Priority = core.PriorityHigh
	if _, err := r.UpdateTask("launch", 0, updated); err != nil {
		t.Fatal(err)
	}

	tasks, _ := r.Tasks("launch", false)
	if tasks[0].Description != "new description" || tasks[0].Priority != core.PriorityHigh {
		t.Errorf("got %+v", tasks[0])
	}

	if _, err := r.UpdateTask("launch", 5, updated); !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("out of range: err = %v", err)
	}
	if _, err := r.UpdateTask("launch", -1, updated); !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("negative index: err = %v", err)
	}
}

func TestSetTaskStatus(t *testing.T) {
	r := seedWithTasks(t, "a")

	if err := r.SetTaskStatus("launch", 0, core.StatusInProgress); err != nil {
		t.Fatal(err)
	}
	tasks, _ := r.Tasks("launch", false)
	if tasks[0].Status != core.StatusInProgress {
		t.Errorf("status = %q", tasks[0].Status)
	}

	if err := r.SetTaskStatus("launch", 0, "paused"); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("bad status: err = %v", err)
	}
}

func TestSetTaskBudget(t *testing.T) {
	r := seedWithTasks(t, "a")

	if err := r.SetTaskBudget("launch", 0, core.MoneyFromCents(2500)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetTaskBudget("launch", 0, core.MoneyFromCents(-1)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative budget: err = %v", err)
	}
	tasks, _ := r.Tasks("launch", false)
	if tasks[0].Budget.Cents != 2500 {
		t.Errorf("budget = %d", tasks[0].Budget.Cents)
	}
}

func TestDeleteTask(t *testing.T) {
	r := seedWithTasks(t, "a", "b", "c")

	if err := r.DeleteTask("launch", 1); err != nil {
		t.Fatal(err)
	}
	tasks, _ := r.Tasks("launch", false)
	got := taskNames(tasks)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("got %v", got)
	}

	if err := r.DeleteTask("launch", 2); !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("stale index: err = %v", err)
	}
}

func TestArchiveRestoreTask(t *testing.T) {
	r := seedWithTasks(t, "a", "b", "c")

	if err := r.ArchiveTask("launch", 0); err != nil {
		t.Fatal(err)
	}
	active, _ := r.Tasks("launch", false)
	archived, _ := r.ArchivedTasks("launch")
	if got := taskNames(active); len(got) != 2 || got[0] != "b" {
		t.Errorf("active = %v", got)
	}
	if got := taskNames(archived); len(got) != 1 || got[0] != "a" {
		t.Errorf("archived = %v", got)
	}

	if err := r.RestoreTask("launch", 0); err != nil {
		t.Fatal(err)
	}
	active, _ = r.Tasks("launch", false)
	archived, _ = r.ArchivedTasks("launch")
	// Restore appends; "a" comes back at the end, not its old slot.
	if got := taskNames(active); len(got) != 3 || got[2] != "a" {
		t.Errorf("active = %v", got)
	}
	if len(archived) != 0 {
		t.Errorf("archived = %v", taskNames(archived))
	}

	if err := r.RestoreTask("launch", 0); !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("empty archive: err = %v", err)
	}
}

func TestTasksHideCompleted(t *testing.T) {
	r := seedWithTasks(t, "a", "b", "c")
	if err := r.SetTaskStatus("launch", 1, core.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	tasks, err := r.Tasks("launch", true)
	if err != nil {
		t.Fatal(err)
	}
	got := taskNames(tasks)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("got %v", got)
	}
}

func TestReorderTasks(t *testing.T) {
	r := seedWithTasks(t)
	deadlines := map[string]core.Date{
		"late":     core.NewDate(2025, 9, 10),
		"early":    core.NewDate(2025, 9, 2),
		"never":    {},
		"also due": core.NewDate(2025, 9, 2),
	}
	for _, d := range []string{"late", "early", "never", "also due"} {
		task := core.NewTask(d)
		task.Deadline = deadlines[d]
		if _, err := r.AddTask("launch", task); err != nil {
			t.Fatal(err)
		}
	}

	if err := r.ReorderTasks("launch", false, services.TaskLess(services.TasksByDeadline)); err != nil {
		t.Fatal(err)
	}
	tasks, _ := r.Tasks("launch", false)
	got := taskNames(tasks)
	// Missing deadlines sort last; equal deadlines keep insertion order.
	want := []string{"early", "also due", "late", "never"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
