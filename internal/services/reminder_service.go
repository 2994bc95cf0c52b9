package services

import (
	"time"

	"agenda/internal/core"
	"agenda/internal/recurrence"
)

// Default sweep windows, in days.
const (
	DefaultEventWindowDays    = 7
	DefaultDeadlineWindowDays = 3
)

// Clock supplies "today" so sweeps and countdowns are deterministic under
// test.
type Clock interface {
	Today() core.Date
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Today() core.Date {
	return core.Today(time.Now())
}

// ReminderService runs the "due soon" sweeps over repository contents.
type ReminderService struct {
	clock Clock
}

func NewReminderService(clock Clock) *ReminderService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReminderService{clock: clock}
}

// EventReminder is one upcoming-event hit.
type EventReminder struct {
	Name string
	// Date is the concrete occurrence date, which for a recurring event
	// may differ from its anchor date.
	Date      core.Date
	Recurring bool
}

// UpcomingEvents reports events occurring within windowDays from today,
// in repository iteration order. A non-recurring event matches when its
// date falls in the window. A recurring event is expanded through its rule
// and contributes at most one entry per sweep: the first occurrence in the
// window. Events with malformed rules or dates are skipped.
func (s *ReminderService) UpcomingEvents(events []*core.Event, windowDays int) []EventReminder {
	today := s.clock.Today()
	windowEnd := core.AddDays(today, windowDays)

	var out []EventReminder
	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		if !e.Recurrence.Enabled {
			if days := today.DaysUntil(e.Date); days >= 0 && days <= windowDays {
				out = append(out, EventReminder{Name: e.Name, Date: e.Date})
			}
			continue
		}
		rule := recurrence.FromRecurrence(e.Recurrence)
		if d, ok := recurrence.First(e.Date, rule, today, windowEnd); ok {
			out = append(out, EventReminder{Name: e.Name, Date: d, Recurring: true})
		}
	}
	return out
}

// TaskReminder is one upcoming-deadline hit.
type TaskReminder struct {
	Event       string
	Description string
	Deadline    core.Date
}

// UpcomingTaskDeadlines scans every active task across every event and
// reports those whose deadline falls within windowDays from today. Tasks
// without a deadline are skipped; that is normal, not an error.
func (s *ReminderService) UpcomingTaskDeadlines(events []*core.Event, windowDays int) []TaskReminder {
	today := s.clock.Today()

	var out []TaskReminder
	for _, e := range events {
		for _, t := range e.Tasks {
			if t.Deadline.IsZero() {
				continue
			}
			if days := today.DaysUntil(t.Deadline); days >= 0 && days <= windowDays {
				out = append(out, TaskReminder{
					Event:       e.Name,
					Description: t.Description,
					Deadline:    t.Deadline,
				})
			}
		}
	}
	return out
}

// Countdown returns the signed day distance to an event: positive = days
// remaining, zero = today, negative = days elapsed.
func (s *ReminderService) Countdown(e *core.Event) int {
	return s.clock.Today().DaysUntil(e.Date)
}
