// Package services holds the read-side engines over repository contents:
// search filters, stable multi-key sorting, budget roll-ups and the
// "due soon" sweeps. All of them take event slices as handed out by the
// repository and never mutate them.
package services

import (
	"sort"
	"strings"

	"agenda/internal/core"
)

// maxDate is the sentinel for missing or unparsable dates: they sort last.
var maxDate = core.NewDate(9999, 12, 31)

// Filter decides whether an event matches a search. Each filter type
// encapsulates one matching strategy.
type Filter interface {
	Matches(e *core.Event) bool
}

// NameContains matches events whose name contains the string,
// case-insensitively.
type NameContains string

func (f NameContains) Matches(e *core.Event) bool {
	return strings.Contains(e.Name, strings.ToLower(string(f)))
}

// HasTag matches events whose tag set contains the exact tag,
// case-insensitively.
type HasTag string

func (f HasTag) Matches(e *core.Event) bool {
	return e.HasTag(string(f))
}

// Keyword matches events whose name or notes contain the string,
// case-insensitively.
type Keyword string

func (f Keyword) Matches(e *core.Event) bool {
	kw := strings.ToLower(string(f))
	return strings.Contains(e.Name, kw) || strings.Contains(strings.ToLower(e.Notes), kw)
}

// ExactDate matches events on the given date.
type ExactDate core.Date

func (f ExactDate) Matches(e *core.Event) bool {
	return e.Date.Equal(core.Date(f))
}

// StarredOnly matches starred events.
type StarredOnly struct{}

func (StarredOnly) Matches(e *core.Event) bool {
	return e.Starred
}

// Search returns the names of matching events in the order given, which is
// the repository's iteration order. No re-sorting happens here.
func Search(events []*core.Event, f Filter) []string {
	var found []string
	for _, e := range events {
		if f.Matches(e) {
			found = append(found, e.Name)
		}
	}
	return found
}

// EventSortKey selects an event ordering.
type EventSortKey string

const (
	EventsByName       EventSortKey = "name"
	EventsByDate       EventSortKey = "date"
	EventsByPriority   EventSortKey = "priority"
	EventsStarredFirst EventSortKey = "starred"
	EventsPinnedFirst  EventSortKey = "pinned"
)

// SortEvents returns a new slice sorted by the given key. The sort is
// stable: events comparing equal keep their incoming relative order. An
// unknown key returns the input order unchanged.
func SortEvents(events []*core.Event, key EventSortKey) []*core.Event {
	out := make([]*core.Event, len(events))
	copy(out, events)
	less := eventLess(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func eventLess(key EventSortKey) func(a, b *core.Event) bool {
	switch key {
	case EventsByName:
		return func(a, b *core.Event) bool { return a.Name < b.Name }
	case EventsByDate:
		return func(a, b *core.Event) bool {
			return dateOrMax(a.Date).Before(dateOrMax(b.Date))
		}
	case EventsByPriority:
		return func(a, b *core.Event) bool {
			return a.Priority.Ordinal() < b.Priority.Ordinal()
		}
	case EventsStarredFirst:
		return func(a, b *core.Event) bool { return a.Starred && !b.Starred }
	case EventsPinnedFirst:
		return func(a, b *core.Event) bool { return a.Pinned && !b.Pinned }
	default:
		return nil
	}
}

// TaskSortKey selects a task ordering.
type TaskSortKey string

const (
	TasksByDeadline    TaskSortKey = "deadline"
	TasksByPriority    TaskSortKey = "priority"
	TasksCompletedLast TaskSortKey = "completed"
	TasksByBudgetDesc  TaskSortKey = "budget"
)

// SortTasks returns a new slice stably sorted by the given key. Tasks with
// no deadline sort after every dated task under TasksByDeadline.
func SortTasks(tasks []core.Task, key TaskSortKey) []core.Task {
	out := make([]core.Task, len(tasks))
	copy(out, tasks)
	less := TaskLess(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// TaskLess returns the comparator for a task sort key, or nil for an
// unknown key. The repository's ReorderTasks takes it to sort in place.
func TaskLess(key TaskSortKey) func(a, b core.Task) bool {
	switch key {
	case TasksByDeadline:
		return func(a, b core.Task) bool {
			return dateOrMax(a.Deadline).Before(dateOrMax(b.Deadline))
		}
	case TasksByPriority:
		return func(a, b core.Task) bool {
			return a.Priority.Ordinal() < b.Priority.Ordinal()
		}
	case TasksCompletedLast:
		return func(a, b core.Task) bool {
			return a.Status != core.StatusCompleted && b.Status == core.StatusCompleted
		}
	case TasksByBudgetDesc:
		return func(a, b core.Task) bool { return a.Budget.Cents > b.Budget.Cents }
	default:
		return nil
	}
}

func dateOrMax(d core.Date) core.Date {
	if d.IsZero() {
		return maxDate
	}
	return d
}
