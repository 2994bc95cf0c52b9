package amqp

import (
	"encoding/json"
	"time"

	"agenda/internal/core"
)

// ReminderKind distinguishes event reminders from task-deadline reminders.
type ReminderKind string

const (
	ReminderKindEvent    ReminderKind = "event"
	ReminderKindDeadline ReminderKind = "deadline"
)

// ReminderMessage is the wire format for one reminder. Consumers (voice
// assistant, notification daemons) only need the name, the due date and
// how many days remain.
type ReminderMessage struct {
	Kind        ReminderKind `json:"kind"`
	Event       string       `json:"event"`
	Description string       `json:"description,omitempty"`
	Due         string       `json:"due"`
	DaysLeft    int          `json:"days_left"`
	Timestamp   time.Time    `json:"timestamp"`
}

// NewEventReminderMessage creates a reminder for an upcoming event.
func NewEventReminderMessage(event string, due core.Date, daysLeft int) *ReminderMessage {
	return &ReminderMessage{
		Kind:      ReminderKindEvent,
		Event:     event,
		Due:       due.String(),
		DaysLeft:  daysLeft,
		Timestamp: time.Now(),
	}
}

// NewDeadlineReminderMessage creates a reminder for an upcoming task
// deadline.
func NewDeadlineReminderMessage(event, description string, due core.Date, daysLeft int) *ReminderMessage {
	return &ReminderMessage{
		Kind:        ReminderKindDeadline,
		Event:       event,
		Description: description,
		Due:         due.String(),
		DaysLeft:    daysLeft,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON creates a message from JSON bytes
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
