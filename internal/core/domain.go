package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// MaxReminderDays bounds how far ahead an event reminder may be set.
const MaxReminderDays = 365

type (
	// Frequency is the unit a recurrence rule advances by.
	Frequency string

	// Priority ranks events and tasks. High sorts before Medium before Low.
	Priority string

	// Status is the progress state of a task.
	Status string

	// Date is a naive local calendar date (no time-of-day, no timezone).
	// The zero value means "no date".
	Date struct {
		time.Time
	}

	// Recurrence describes how an event repeats. Until's zero value means
	// the rule has no end date.
	Recurrence struct {
		Enabled   bool
		Frequency Frequency
		Interval  int
		Until     Date
	}

	// Task is a unit of work owned by one event.
	Task struct {
		Description string
		Deadline    Date // zero = no deadline
		Priority    Priority
		Status      Status
		Budget      Money
	}

	// Event is a named, dated planning unit owning tasks, tags, a budget
	// and an optional recurrence rule. StartTime/EndTime are HH:MM strings
	// validated on write; empty means unset. Tags are lowercase and keep
	// insertion order.
	Event struct {
		Name          string
		Date          Date
		StartTime     string
		EndTime       string
		Notes         string
		Category      string
		Tags          []string
		Priority      Priority
		Budget        Money
		Pinned        bool
		Starred       bool
		ReminderDays  int
		Recurrence    Recurrence
		Tasks         []Task
		ArchivedTasks []Task
	}
)

var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrDuplicateName       = errors.New("name already exists")
	ErrNotFound            = errors.New("event not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTime         = errors.New("invalid time")
	ErrInvalidTimeRange    = errors.New("end time must be after start time")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidReminderDays = errors.New("reminder days out of range")
	ErrInvalidInterval     = errors.New("recurrence interval must be at least 1")
	ErrUntilBeforeDate     = errors.New("recurrence end date is before event date")
	ErrInvalidFrequency    = errors.New("invalid recurrence frequency")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid status")
)

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d falls after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// DaysUntil returns the signed whole-day distance from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// ParsePriority accepts Low/Medium/High in any case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Ordinal returns the sort rank of a priority: High=0, Medium=1, Low=2.
// Unknown values rank as Medium, matching the legacy default.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseStatus accepts Pending/In Progress/Completed in any case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "in progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Validate checks a recurrence rule against the event date it anchors to.
// Disabled rules are always valid; their remaining fields are ignored.
func (r Recurrence) Validate(anchor Date) error {
	if !r.Enabled {
		return nil
	}
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	if !r.Until.IsZero() && r.Until.Before(anchor) {
		return ErrUntilBeforeDate
	}
	return nil
}

// NormalizeName lowercases and trims an event name. Names are unique
// case-insensitively within each namespace.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTag lowercases and trims a tag.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewEvent creates an event with all defaults applied: Medium priority,
// zero budget, no recurrence, empty task lists.
func NewEvent(name string, date Date) *Event {
	return &Event{
		Name:          NormalizeName(name),
		Date:          date,
		Tags:          []string{},
		Priority:      PriorityMedium,
		Recurrence:    Recurrence{Enabled: false},
		Tasks:         []Task{},
		ArchivedTasks: []Task{},
	}
}

// NewTask creates a task with defaults: Medium priority, Pending status,
// zero budget, no deadline.
func NewTask(description string) Task {
	return Task{
		Description: strings.TrimSpace(description),
		Priority:    PriorityMedium,
		Status:      StatusPending,
	}
}

// HasTag reports case-insensitive tag membership.
func (e *Event) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a normalized tag, ignoring empties and duplicates.
// Insertion order is preserved for display.
func (e *Event) AddTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" || e.HasTag(tag) {
		return false
	}
	e.Tags = append(e.Tags, tag)
	return true
}

// RemoveTag deletes a tag, reporting whether it was present.
func (e *Event) RemoveTag(tag string) bool {
	tag = NormalizeTag(tag)
	for i, t := range e.Tags {
		if t == tag {
			e.Tags = append(e.Tags[:i], e.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the event. Repository reads hand out clones
// so callers cannot mutate stored state behind the repository's back.
func (e *Event) Clone() *Event {
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	c.Tasks = append([]Task(nil), e.Tasks...)
	c.ArchivedTasks = append([]Task(nil), e.ArchivedTasks...)
	return &c
}

// Validate checks the event's cross-field invariants.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := ValidateTimeRange(e.StartTime, e.EndTime); err != nil {
		return err
	}
	if e.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	if e.ReminderDays < 0 || e.ReminderDays > MaxReminderDays {
		return ErrInvalidReminderDays
	}
	return e.Recurrence.Validate(e.Date)
}

// Validate checks a task's field invariants. Deadline consistency against
// the owning event is the repository's concern, not the task's.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyName
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseTimeOfDay parses an HH:MM 24-hour string into minutes from midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeRange checks that start and end, when both present, parse as
// HH:MM and that end is strictly after start.
func ValidateTimeRange(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	var startMin, endMin int
	var err error
	if start != "" {
		if startMin, err = ParseTimeOfDay(start); err != nil {
			return err
		}
	}
	if end != "" {
		if endMin, err = ParseTimeOfDay(end); err != nil {
			return err
		}
	}
	if start != "" && end != "" && endMin <= startMin {
		return ErrInvalidTimeRange
	}
	return nil
}
