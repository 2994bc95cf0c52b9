package repository

import (
	"fmt"
	"sort"

	"agenda/internal/core"
	"agenda/internal/services"
)

// TaskResult is the outcome of a task write. DeadlineCleared reports the
// lenient-accept path: the task was stored, but its deadline violated the
// event-date bound and was dropped. Callers surface this as a warning.
type TaskResult struct {
	Task            core.Task
	DeadlineCleared bool
}

// AddTask appends a task to an event. The deadline is checked against the
// event date; on violation the task is still added with the deadline
// cleared (see TaskResult).
func (r *EventRepository) AddTask(event string, t core.Task) (TaskResult, error) {
	var res TaskResult
	_, err := r.update(event, func(e *core.Event) error {
		checked, err := checkTask(e, t)
		if err != nil {
			return err
		}
		e.Tasks = append(e.Tasks, checked.Task)
		res = checked
		return nil
	})
	return res, err
}

// UpdateTask replaces the task at index, re-running field validation and
// the deadline check against the owning event.
func (r *EventRepository) UpdateTask(event string, index int, t core.Task) (TaskResult, error) {
	var res TaskResult
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.Tasks) {
			return taskIndexError(index)
		}
		checked, err := checkTask(e, t)
		if err != nil {
			return err
		}
		e.Tasks[index] = checked.Task
		res = checked
		return nil
	})
	return res, err
}

// checkTask validates task fields and applies the deadline policy.
func checkTask(e *core.Event, t core.Task) (TaskResult, error) {
	if err := t.Validate(); err != nil {
		return TaskResult{}, err
	}
	check := services.ValidateDeadline(t.Deadline, e.Date, e.Recurrence.Enabled)
	t.Deadline = check.Deadline
	return TaskResult{Task: t, DeadlineCleared: !check.Accepted}, nil
}

// SetTaskStatus updates only the status of the task at index.
func (r *EventRepository) SetTaskStatus(event string, index int, status core.Status) error {
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.Tasks) {
			return taskIndexError(index)
		}
		if !status.IsValid() {
			return core.ErrInvalidStatus
		}
		e.Tasks[index].Status = status
		return nil
	})
	return err
}

// SetTaskBudget updates only the budget of the task at index.
func (r *EventRepository) SetTaskBudget(event string, index int, budget core.Money) error {
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.Tasks) {
			return taskIndexError(index)
		}
		if budget.Cents < 0 {
			return core.ErrInvalidAmount
		}
		e.Tasks[index].Budget = budget
		return nil
	})
	return err
}

// DeleteTask removes the active task at index permanently.
func (r *EventRepository) DeleteTask(event string, index int) error {
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.Tasks) {
			return taskIndexError(index)
		}
		e.Tasks = append(e.Tasks[:index], e.Tasks[index+1:]...)
		return nil
	})
	return err
}

// ArchiveTask moves the active task at index to the event's archive,
// appending at the end of the archived list.
func (r *EventRepository) ArchiveTask(event string, index int) error {
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.Tasks) {
			return taskIndexError(index)
		}
		t := e.Tasks[index]
		e.Tasks = append(e.Tasks[:index], e.Tasks[index+1:]...)
		e.ArchivedTasks = append(e.ArchivedTasks, t)
		return nil
	})
	return err
}

// RestoreTask moves the archived task at index back to the active list,
// appending at the end.
func (r *EventRepository) RestoreTask(event string, index int) error {
	_, err := r.update(event, func(e *core.Event) error {
		if index < 0 || index >= len(e.ArchivedTasks) {
			return taskIndexError(index)
		}
		t := e.ArchivedTasks[index]
		e.ArchivedTasks = append(e.ArchivedTasks[:index], e.ArchivedTasks[index+1:]...)
		e.Tasks = append(e.Tasks, t)
		return nil
	})
	return err
}

// Tasks returns copies of an event's active tasks in stored order,
// optionally filtering out completed ones.
func (r *EventRepository) Tasks(event string, hideCompleted bool) ([]core.Task, error) {
	e, err := r.Get(event)
	if err != nil {
		return nil, err
	}
	if !hideCompleted {
		return e.Tasks, nil
	}
	out := make([]core.Task, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		if t.Status != core.StatusCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

// ArchivedTasks returns copies of an event's archived tasks in stored order.
func (r *EventRepository) ArchivedTasks(event string) ([]core.Task, error) {
	e, err := r.Get(event)
	if err != nil {
		return nil, err
	}
	return e.ArchivedTasks, nil
}

// ReorderTasks stably sorts an event's stored task list (active or
// archived) with the given comparator. Equal tasks keep their relative
// order.
func (r *EventRepository) ReorderTasks(event string, archived bool, less func(a, b core.Task) bool) error {
	_, err := r.update(event, func(e *core.Event) error {
		list := e.Tasks
		if archived {
			list = e.ArchivedTasks
		}
		sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
		return nil
	})
	return err
}

func taskIndexError(index int) error {
	return fmt.Errorf("task %d: %w", index+1, core.ErrTaskNotFound)
}
