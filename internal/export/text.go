// Package export renders planner data for destinations outside the
// repository: a plain-text dump and a Google Sheets budget report.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"agenda/internal/core"
)

// WriteText writes a readable dump of every event, its fields and its
// tasks (archived ones included).
func WriteText(w io.Writer, events []*core.Event) error {
	bw := bufio.NewWriter(w)

	for _, e := range events {
		fmt.Fprintf(bw, "=== Event: %s ===\n", strings.ToUpper(e.Name))
		fmt.Fprintf(bw, "Date: %s\n", orDash(dateString(e.Date)))
		fmt.Fprintf(bw, "Notes: %s\n", orDash(e.Notes))
		fmt.Fprintf(bw, "Tags: %s\n", strings.Join(e.Tags, ", "))
		fmt.Fprintf(bw, "Category: %s\n", orDash(e.Category))
		fmt.Fprintf(bw, "Priority: %s\n", e.Priority)
		fmt.Fprintf(bw, "Start Time: %s\n", orDash(e.StartTime))
		fmt.Fprintf(bw, "End Time: %s\n", orDash(e.EndTime))
		fmt.Fprintf(bw, "Pinned: %t\n", e.Pinned)
		fmt.Fprintf(bw, "Starred: %t\n", e.Starred)
		fmt.Fprintf(bw, "Reminder Days: %d\n", e.ReminderDays)
		fmt.Fprintf(bw, "Budget: %s\n", e.Budget)

		if e.Recurrence.Enabled {
			until := "No end"
			if !e.Recurrence.Until.IsZero() {
				until = e.Recurrence.Until.String()
			}
			fmt.Fprintf(bw, "Recurrence: %s every %d until %s\n",
				e.Recurrence.Frequency, e.Recurrence.Interval, until)
		} else {
			fmt.Fprintln(bw, "Recurrence: None")
		}

		fmt.Fprintln(bw, "Tasks:")
		if len(e.Tasks) == 0 {
			fmt.Fprintln(bw, "- No tasks")
		}
		for _, t := range e.Tasks {
			fmt.Fprintf(bw, "- %s || Status: %s || Deadline: %s, Priority: %s, Budget: %s\n",
				t.Description, t.Status, orDash(dateString(t.Deadline)), t.Priority, t.Budget)
		}

		if len(e.ArchivedTasks) > 0 {
			fmt.Fprintln(bw, "Archived Tasks:")
			for _, t := range e.ArchivedTasks {
				fmt.Fprintf(bw, "- %s || Status: %s\n", t.Description, t.Status)
			}
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

func dateString(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
