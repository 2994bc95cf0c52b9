package services

import (
	"math"

	"agenda/internal/core"
)

// usagePercentCap bounds the displayed usage percentage.
const usagePercentCap = 999

// BudgetSummary is the budget roll-up for one event.
type BudgetSummary struct {
	Event           string
	EventBudget     core.Money
	TotalTaskBudget core.Money
	// Remaining may be negative, signaling overage.
	Remaining core.Money
	// UsagePercent is round(total/budget*100) capped at 999; only
	// meaningful when HasUsage is true (event budget > 0).
	UsagePercent int
	HasUsage     bool
}

// SummarizeBudget sums the active tasks' budgets and compares them to the
// event budget. Malformed task budgets (negative cents from a bad load)
// are skipped; one bad record never aborts the aggregate.
func SummarizeBudget(e *core.Event) BudgetSummary {
	var total core.Money
	for _, t := range e.Tasks {
		if t.Budget.Cents < 0 {
			continue
		}
		total = total.Add(t.Budget)
	}

	s := BudgetSummary{
		Event:           e.Name,
		EventBudget:     e.Budget,
		TotalTaskBudget: total,
		Remaining:       e.Budget.Sub(total),
	}
	if e.Budget.Cents > 0 {
		pct := int(math.Round(float64(total.Cents) / float64(e.Budget.Cents) * 100))
		if pct > usagePercentCap {
			pct = usagePercentCap
		}
		s.UsagePercent = pct
		s.HasUsage = true
	}
	return s
}

// EventBudget pairs an event name with its budget.
type EventBudget struct {
	Name   string
	Budget core.Money
}

// ListAllBudgets returns every event's budget in the given (repository
// iteration) order.
func ListAllBudgets(events []*core.Event) []EventBudget {
	out := make([]EventBudget, 0, len(events))
	for _, e := range events {
		out = append(out, EventBudget{Name: e.Name, Budget: e.Budget})
	}
	return out
}

// TaskBudget pairs a task description with its budget.
type TaskBudget struct {
	Description string
	Budget      core.Money
}

// TaskBudgets lists the active tasks' budgets in stored order.
func TaskBudgets(e *core.Event) []TaskBudget {
	out := make([]TaskBudget, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		out = append(out, TaskBudget{Description: t.Description, Budget: t.Budget})
	}
	return out
}
