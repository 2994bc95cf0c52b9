// Package repository owns the in-memory collections of active and archived
// events. Iteration order is insertion order and is part of the contract:
// listing, search results and exports all follow it.
//
// Every write either fully applies or leaves state untouched. Mutations work
// on a clone of the stored event and commit only after validation, so a
// failed edit can never leave a half-updated record behind. Reads hand out
// clones for the same reason.
package repository

import (
	"fmt"

	"agenda/internal/core"
)

// eventSet is an ordered name-indexed event collection. The order slice is
// authoritative for iteration; the map is the identity index.
type eventSet struct {
	order  []string
	byName map[string]*core.Event
}

func newEventSet() *eventSet {
	return &eventSet{byName: make(map[string]*core.Event)}
}

func (s *eventSet) get(name string) (*core.Event, bool) {
	e, ok := s.byName[name]
	return e, ok
}

func (s *eventSet) insert(e *core.Event) error {
	if _, exists := s.byName[e.Name]; exists {
		return fmt.Errorf("%q: %w", e.Name, core.ErrDuplicateName)
	}
	s.byName[e.Name] = e
	s.order = append(s.order, e.Name)
	return nil
}

func (s *eventSet) remove(name string) (*core.Event, bool) {
	e, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return e, true
}

// rename swaps the index key while keeping the event's slot in the order.
func (s *eventSet) rename(oldName, newName string) {
	e := s.byName[oldName]
	delete(s.byName, oldName)
	e.Name = newName
	s.byName[newName] = e
	for i, n := range s.order {
		if n == oldName {
			s.order[i] = newName
			break
		}
	}
}

func (s *eventSet) list() []*core.Event {
	out := make([]*core.Event, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name].Clone())
	}
	return out
}

// EventRepository is the single-session store for active and archived
// events. It is not safe for concurrent use; one caller owns it.
type EventRepository struct {
	active   *eventSet
	archived *eventSet
}

// New creates an empty repository.
func New() *EventRepository {
	return &EventRepository{
		active:   newEventSet(),
		archived: newEventSet(),
	}
}

// Create validates and stores a new event. The name is normalized; a
// duplicate in the active namespace is rejected.
func (r *EventRepository) Create(e *core.Event) (*core.Event, error) {
	if e == nil {
		return nil, core.ErrNotFound
	}
	c := e.Clone()
	c.Name = core.NormalizeName(c.Name)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := r.active.insert(c); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Get returns a copy of an active event.
func (r *EventRepository) Get(name string) (*core.Event, error) {
	e, ok := r.active.get(core.NormalizeName(name))
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	return e.Clone(), nil
}

// List returns copies of all active events in insertion order.
func (r *EventRepository) List() []*core.Event {
	return r.active.list()
}

// ListArchived returns copies of all archived events in insertion order.
func (r *EventRepository) ListArchived() []*core.Event {
	return r.archived.list()
}

// Len returns the number of active events.
func (r *EventRepository) Len() int {
	return len(r.active.order)
}

// Rename changes an active event's name, keeping its position in the
// iteration order. The new name must be free in the active namespace.
func (r *EventRepository) Rename(oldName, newName string) error {
	oldName = core.NormalizeName(oldName)
	newName = core.NormalizeName(newName)
	if newName == "" {
		return core.ErrEmptyName
	}
	if _, ok := r.active.get(oldName); !ok {
		return fmt.Errorf("%q: %w", oldName, core.ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := r.active.get(newName); exists {
		return fmt.Errorf("%q: %w", newName, core.ErrDuplicateName)
	}
	r.active.rename(oldName, newName)
	return nil
}

// Delete removes an active event permanently.
func (r *EventRepository) Delete(name string) error {
	if _, ok := r.active.remove(core.NormalizeName(name)); !ok {
		return fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	return nil
}

// DeleteArchived removes an archived event permanently.
func (r *EventRepository) DeleteArchived(name string) error {
	if _, ok := r.archived.remove(core.NormalizeName(name)); !ok {
		return fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	return nil
}

// Archive moves an event from the active to the archived namespace. The
// move is rejected if the archived namespace already holds the name, and
// the event stays active in that case.
func (r *EventRepository) Archive(name string) error {
	name = core.NormalizeName(name)
	e, ok := r.active.get(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	if _, exists := r.archived.get(name); exists {
		return fmt.Errorf("%q: %w", name, core.ErrDuplicateName)
	}
	r.active.remove(name)
	_ = r.archived.insert(e)
	return nil
}

// Restore moves an archived event back to the active namespace, subject to
// the same uniqueness rule.
func (r *EventRepository) Restore(name string) error {
	name = core.NormalizeName(name)
	e, ok := r.archived.get(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	if _, exists := r.active.get(name); exists {
		return fmt.Errorf("%q: %w", name, core.ErrDuplicateName)
	}
	r.archived.remove(name)
	_ = r.active.insert(e)
	return nil
}

// update applies fn to a clone of the named active event, validates the
// result, and commits it. On any error the stored event is unchanged.
func (r *EventRepository) update(name string, fn func(*core.Event) error) (*core.Event, error) {
	name = core.NormalizeName(name)
	stored, ok := r.active.get(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, core.ErrNotFound)
	}
	c := stored.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	c.Name = stored.Name // edits never rename; Rename is a separate op
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r.active.byName[name] = c
	return c.Clone(), nil
}

// SetDate changes the event date.
func (r *EventRepository) SetDate(name string, date core.Date) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Date = date
		return nil
	})
}

// SetNotes replaces the event notes.
func (r *EventRepository) SetNotes(name, notes string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Notes = notes
		return nil
	})
}

// SetCategory replaces the event category.
func (r *EventRepository) SetCategory(name, category string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Category = category
		return nil
	})
}

// SetPriority changes the event priority.
func (r *EventRepository) SetPriority(name string, p core.Priority) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		if !p.IsValid() {
			return core.ErrInvalidPriority
		}
		e.Priority = p
		return nil
	})
}

// SetBudget changes the event budget.
func (r *EventRepository) SetBudget(name string, budget core.Money) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Budget = budget
		return nil
	})
}

// SetDuration sets the start/end times. Both must parse and end must be
// strictly after start.
func (r *EventRepository) SetDuration(name, start, end string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.StartTime = start
		e.EndTime = end
		return nil
	})
}

// TogglePin flips the pinned flag and returns the updated event.
func (r *EventRepository) TogglePin(name string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Pinned = !e.Pinned
		return nil
	})
}

// ToggleStar flips the starred flag and returns the updated event.
func (r *EventRepository) ToggleStar(name string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Starred = !e.Starred
		return nil
	})
}

// AddTag adds a tag to the event.
func (r *EventRepository) AddTag(name, tag string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		if core.NormalizeTag(tag) == "" {
			return core.ErrEmptyName
		}
		e.AddTag(tag)
		return nil
	})
}

// RemoveTag removes a tag from the event.
func (r *EventRepository) RemoveTag(name, tag string) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		if !e.RemoveTag(tag) {
			return fmt.Errorf("tag %q: %w", tag, core.ErrNotFound)
		}
		return nil
	})
}

// SetRecurrence replaces the recurrence settings.
func (r *EventRepository) SetRecurrence(name string, rec core.Recurrence) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		e.Recurrence = rec
		return nil
	})
}

// SetReminder sets reminder days, bounded by both the 365-day cap and the
// days remaining until the event. Past or same-day events cannot take a
// reminder.
func (r *EventRepository) SetReminder(name string, days int, today core.Date) (*core.Event, error) {
	return r.update(name, func(e *core.Event) error {
		daysUntil := today.DaysUntil(e.Date)
		if daysUntil <= 0 {
			return core.ErrInvalidReminderDays
		}
		limit := core.MaxReminderDays
		if daysUntil < limit {
			limit = daysUntil
		}
		if days < 0 || days > limit {
			return core.ErrInvalidReminderDays
		}
		e.ReminderDays = days
		return nil
	})
}

// Snapshot is the full repository state, used by persistence backends.
type Snapshot struct {
	Active   []*core.Event
	Archived []*core.Event
}

// Snapshot returns a deep copy of the repository state in iteration order.
func (r *EventRepository) Snapshot() Snapshot {
	return Snapshot{Active: r.active.list(), Archived: r.archived.list()}
}

// RestoreSnapshot replaces the repository state. Events are validated and
// inserted in slice order; the first failure aborts with the repository
// left unchanged.
func (r *EventRepository) RestoreSnapshot(s Snapshot) error {
	active := newEventSet()
	archived := newEventSet()
	for _, e := range s.Active {
		c := e.Clone()
		c.Name = core.NormalizeName(c.Name)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("event %q: %w", e.Name, err)
		}
		if err := active.insert(c); err != nil {
			return err
		}
	}
	for _, e := range s.Archived {
		c := e.Clone()
		c.Name = core.NormalizeName(c.Name)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("archived event %q: %w", e.Name, err)
		}
		if err := archived.insert(c); err != nil {
			return err
		}
	}
	r.active = active
	r.archived = archived
	return nil
}
