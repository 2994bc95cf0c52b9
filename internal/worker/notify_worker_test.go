package worker

import (
	"context"
	"errors"
	"testing"

	"agenda/internal/amqp"
	"agenda/internal/core"
	"agenda/internal/repository"
)

type fakeStore struct {
	snap repository.Snapshot
	err  error
}

func (s *fakeStore) Load(ctx context.Context) (repository.Snapshot, error) {
	return s.snap, s.err
}

func (s *fakeStore) Save(ctx context.Context, snap repository.Snapshot) error {
	s.snap = snap
	return nil
}

func (s *fakeStore) Close() error { return nil }

type fakePublisher struct {
	messages []*amqp.ReminderMessage
	failOn   string
}

func (p *fakePublisher) PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error {
	if p.failOn != "" && msg.Kind == amqp.ReminderKindEvent && msg.Event == p.failOn {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

type fixedClock struct {
	today core.Date
}

func (c fixedClock) Today() core.Date { return c.today }

func sweepFixture() repository.Snapshot {
	soon := core.NewEvent("birthday", core.NewDate(2025, 6, 5))
	soon.Tasks = []core.Task{
		{Description: "order cake", Deadline: core.NewDate(2025, 6, 3), Priority: core.PriorityHigh, Status: core.StatusPending},
		{Description: "wrap gift", Priority: core.PriorityMedium, Status: core.StatusPending},
	}

	far := core.NewEvent("conference", core.NewDate(2025, 8, 1))

	guarded := core.NewEvent("checkup", core.NewDate(2025, 6, 8))
	guarded.ReminderDays = 2 // only fires two days out

	return repository.Snapshot{Active: []*core.Event{soon, far, guarded}}
}

func TestRunSweep(t *testing.T) {
	store := &fakeStore{snap: sweepFixture()}
	pub := &fakePublisher{}
	w := NewNotifyWorker(store, pub, fixedClock{core.NewDate(2025, 6, 2)}, 7, 3)

	if err := w.RunSweep(context.Background()); err != nil {
		t.Fatal(err)
	}

	// birthday (3 days out) and its dated task; conference is too far out,
	// checkup is within the window but outside its own 2-day lead time.
	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2: %+v", len(pub.messages), pub.messages)
	}

	event := pub.messages[0]
	if event.Kind != amqp.ReminderKindEvent || event.Event != "birthday" || event.DaysLeft != 3 {
		t.Errorf("event message = %+v", event)
	}

	deadline := pub.messages[1]
	if deadline.Kind != amqp.ReminderKindDeadline || deadline.Description != "order cake" {
		t.Errorf("deadline message = %+v", deadline)
	}
	if deadline.DaysLeft != 1 {
		t.Errorf("deadline days_left = %d, want 1", deadline.DaysLeft)
	}
}

func TestRunSweepReminderGuardFires(t *testing.T) {
	store := &fakeStore{snap: sweepFixture()}
	pub := &fakePublisher{}
	// Two days before the checkup its own lead time is satisfied.
	w := NewNotifyWorker(store, pub, fixedClock{core.NewDate(2025, 6, 6)}, 7, 3)

	if err := w.RunSweep(context.Background()); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, m := range pub.messages {
		if m.Event == "checkup" {
			found = true
			if m.DaysLeft != 2 {
				t.Errorf("checkup days_left = %d, want 2", m.DaysLeft)
			}
		}
	}
	if !found {
		t.Errorf("checkup reminder missing: %+v", pub.messages)
	}
}

func TestRunSweepPublishFailure(t *testing.T) {
	store := &fakeStore{snap: sweepFixture()}
	pub := &fakePublisher{failOn: "birthday"}
	w := NewNotifyWorker(store, pub, fixedClock{core.NewDate(2025, 6, 2)}, 7, 3)

	err := w.RunSweep(context.Background())
	if err == nil {
		t.Fatal("sweep with failed publishes should report an error")
	}
	// The failing event reminder must not block the deadline reminder.
	if len(pub.messages) != 1 || pub.messages[0].Kind != amqp.ReminderKindDeadline {
		t.Errorf("got %+v, want only the deadline reminder", pub.messages)
	}
}

func TestRunSweepLoadError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk gone")}
	w := NewNotifyWorker(store, &fakePublisher{}, fixedClock{core.NewDate(2025, 6, 2)}, 7, 3)

	if err := w.RunSweep(context.Background()); err == nil {
		t.Fatal("load failure must abort the sweep")
	}
}
