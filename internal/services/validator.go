package services

import "agenda/internal/core"

// DeadlineCheck is the outcome of validating a task deadline against its
// owning event.
type DeadlineCheck struct {
	// Accepted is false when the deadline violated the event-date bound.
	Accepted bool
	// Deadline is the value to store: the input when accepted, zero when
	// not. The task itself is always kept; only the deadline is dropped.
	Deadline core.Date
}

// ValidateDeadline checks a task deadline against the owning event's date.
// A recurring event accepts any deadline, since the event repeats past its
// anchor date. A non-recurring event requires deadline <= event date; a
// violating deadline is cleared rather than rejecting the task.
func ValidateDeadline(deadline, eventDate core.Date, recurring bool) DeadlineCheck {
	if deadline.IsZero() || recurring {
		return DeadlineCheck{Accepted: true, Deadline: deadline}
	}
	if deadline.After(eventDate) {
		return DeadlineCheck{Accepted: false}
	}
	return DeadlineCheck{Accepted: true, Deadline: deadline}
}
