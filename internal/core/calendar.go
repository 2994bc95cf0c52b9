// Package core provides the domain model and calendar-safe date arithmetic.
//
// This file contains month/year addition with day-of-month clamping. Plain
// time.AddDate normalizes overflow (Jan 31 + 1 month = Mar 2/3), which is
// wrong for calendar scheduling; these helpers clamp to the last valid day
// of the target month instead.
package core

import "time"

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear implements the Gregorian rule: divisible by 4, except
// centuries unless divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given
// year. Month is 1-based.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

// AddDays shifts a date by n calendar days. n may be negative.
func AddDays(d Date, n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths shifts a date by n months, clamping the day to the last valid
// day of the target month. Never errors: AddMonths(2024-01-31, 1) is
// 2024-02-29, AddMonths(2023-01-31, 1) is 2023-02-28.
func AddMonths(d Date, n int) Date {
	month := int(d.Time.Month()) - 1 + n
	year := d.Time.Year() + month/12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	month++ // back to 1-based

	day := d.Time.Day()
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// AddYears shifts a date by n years, preserving month and day. A Feb 29
// source clamps to Feb 28 when the target year is not a leap year.
func AddYears(d Date, n int) Date {
	year := d.Time.Year() + n
	month := int(d.Time.Month())
	day := d.Time.Day()
	if month == 2 && day == 29 && !IsLeapYear(year) {
		day = 28
	}
	return NewDate(year, month, day)
}

// Today converts a wall-clock instant into a Date, discarding time-of-day.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
