package worker

import (
	"context"
	"fmt"
	"log/slog"

	"agenda/internal/amqp"
	"agenda/internal/backend"
	"agenda/internal/core"
	"agenda/internal/services"
)

// ReminderPublisher delivers reminder messages to the outside world.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// NotifyWorker runs the reminder sweep: it loads the current snapshot,
// finds events and task deadlines due within the configured windows, and
// publishes one message per hit.
type NotifyWorker struct {
	store     backend.Store
	reminders *services.ReminderService
	publisher ReminderPublisher
	clock     services.Clock

	eventWindowDays    int
	deadlineWindowDays int
}

func NewNotifyWorker(store backend.Store, publisher ReminderPublisher, clock services.Clock, eventWindowDays, deadlineWindowDays int) *NotifyWorker {
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &NotifyWorker{
		store:              store,
		reminders:          services.NewReminderService(clock),
		publisher:          publisher,
		clock:              clock,
		eventWindowDays:    eventWindowDays,
		deadlineWindowDays: deadlineWindowDays,
	}
}

// RunSweep executes one sweep. Publish failures are logged and counted but
// do not abort the sweep; the remaining reminders still go out.
func (w *NotifyWorker) RunSweep(ctx context.Context) error {
	snap, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	today := w.clock.Today()
	byName := make(map[string]*core.Event, len(snap.Active))
	for _, e := range snap.Active {
		byName[e.Name] = e
	}

	published, failed := 0, 0

	for _, r := range w.reminders.UpcomingEvents(snap.Active, w.eventWindowDays) {
		daysLeft := today.DaysUntil(r.Date)
		// An event with its own reminder lead time only fires within it.
		if e := byName[r.Name]; e != nil && e.ReminderDays > 0 && daysLeft > e.ReminderDays {
			continue
		}
		msg := amqp.NewEventReminderMessage(r.Name, r.Date, daysLeft)
		if err := w.publisher.PublishReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish event reminder",
				"event", r.Name, "error", err)
			failed++
			continue
		}
		published++
	}

	for _, r := range w.reminders.UpcomingTaskDeadlines(snap.Active, w.deadlineWindowDays) {
		daysLeft := today.DaysUntil(r.Deadline)
		msg := amqp.NewDeadlineReminderMessage(r.Event, r.Description, r.Deadline, daysLeft)
		if err := w.publisher.PublishReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish deadline reminder",
				"event", r.Event, "task", r.Description, "error", err)
			failed++
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder sweep completed",
		"published", published,
		"failed", failed,
		"events", len(snap.Active))

	if failed > 0 {
		return fmt.Errorf("sweep finished with %d failed publishes", failed)
	}
	return nil
}
