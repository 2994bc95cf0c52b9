// Package recurrence expands recurrence rules into bounded sequences of
// occurrence dates.
//
// Expansion is a pure function of its inputs: the returned iterator keeps no
// state between runs and can be re-ranged at will. Every sequence is finite
// regardless of rule contents: a rule without an end date is cut off at a
// fixed horizon past the window start, and a rule that fails to advance
// terminates immediately. Malformed rules (unknown frequency, interval < 1)
// produce an empty sequence rather than an error; they signal configuration
// problems a sweep must tolerate, not conditions worth aborting on.
package recurrence

import (
	"iter"

	"agenda/internal/core"
)

const (
	// HorizonDays bounds expansion when a rule has no end date.
	HorizonDays = 365

	// maxSteps is a last-ditch cap on rule advances per expansion. Daily
	// and weekly rules jump straight to the window, and a month step
	// covers at least 28 days, so the horizon always cuts a well-formed
	// rule off first.
	maxSteps = 4096
)

// Rule is the expandable portion of an event's recurrence settings.
type Rule struct {
	Frequency core.Frequency
	Interval  int
	Until     core.Date // zero = no end
}

// FromRecurrence extracts the rule from an event's recurrence settings.
// The caller checks Enabled; a disabled recurrence has no meaningful rule.
func FromRecurrence(r core.Recurrence) Rule {
	return Rule{Frequency: r.Frequency, Interval: r.Interval, Until: r.Until}
}

// Occurrences returns the occurrence dates of a rule anchored at base that
// fall within [windowStart, windowEnd], in ascending order. Candidates are
// generated from base by repeated frequency/interval advances and stop once
// they pass Until, or HorizonDays past windowStart when Until is unset.
func Occurrences(base core.Date, rule Rule, windowStart, windowEnd core.Date) iter.Seq[core.Date] {
	return func(yield func(core.Date) bool) {
		if !rule.Frequency.IsValid() || rule.Interval < 1 {
			return
		}
		horizon := rule.Until
		if horizon.IsZero() {
			horizon = core.AddDays(windowStart, HorizonDays)
		}

		next := base
		// Day-stepped rules anchored before the window skip the gap in
		// one jump; walking it step by step from a years-old anchor
		// would exhaust maxSteps before reaching windowStart.
		if stepDays := dayStep(rule); stepDays > 0 && next.Before(windowStart) {
			gap := next.DaysUntil(windowStart)
			steps := (gap + stepDays - 1) / stepDays
			next = core.AddDays(next, steps*stepDays)
		}
		for steps := 0; steps < maxSteps && !next.After(horizon); steps++ {
			if !next.Before(windowStart) && !next.After(windowEnd) {
				if !yield(next) {
					return
				}
			}
			prev := next
			switch rule.Frequency {
			case core.Daily:
				next = core.AddDays(next, rule.Interval)
			case core.Weekly:
				next = core.AddDays(next, 7*rule.Interval)
			case core.Monthly:
				next = core.AddMonths(next, rule.Interval)
			case core.Yearly:
				next = core.AddYears(next, rule.Interval)
			default:
				return
			}
			// A rule that stops advancing must not loop.
			if !next.After(prev) {
				return
			}
		}
	}
}

// dayStep returns the rule's step size in days, or 0 for rules that step
// by calendar months or years.
func dayStep(rule Rule) int {
	switch rule.Frequency {
	case core.Daily:
		return rule.Interval
	case core.Weekly:
		return 7 * rule.Interval
	}
	return 0
}

// First returns the earliest occurrence within the window, if any. Sweeps
// that only need "does this event occur in the window" stop here instead of
// expanding the full sequence.
func First(base core.Date, rule Rule, windowStart, windowEnd core.Date) (core.Date, bool) {
	for d := range Occurrences(base, rule, windowStart, windowEnd) {
		return d, true
	}
	return core.Date{}, false
}
