// Package day owns the notion of "today" for every domain that resets at a
// calendar boundary. Consumers take a Clock instead of calling time.Now so
// tests can pin the date.
package day

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the ISO calendar date used on disk and on the wire.
const Layout = "2006-01-02"

// Clock reports the current calendar date in Layout form.
type Clock interface {
	Today() string
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() string

// Today implements Clock.
func (f ClockFunc) Today() string {
	return f()
}

// System is the wall clock in the local time zone.
var System Clock = ClockFunc(func() string {
	return time.Now().Local().Format(Layout)
})

// Fixed always reports date.
func Fixed(date string) Clock {
	return ClockFunc(func() string { return date })
}

// Parse reads an ISO date in the local time zone.
func Parse(date string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("day: invalid date %q: %w", date, err)
	}
	return t, nil
}

// Valid reports whether date is a well formed ISO date.
func Valid(date string) bool {
	_, err := Parse(date)
	return err == nil
}

// AddDays shifts date by n days. Malformed input is returned unchanged.
func AddDays(date string, n int) string {
	t, err := Parse(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(Layout)
}

// Last returns the n dates ending at today, oldest first.
func Last(today string, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, AddDays(today, -i))
	}
	return out
}

// Before reports whether a is strictly earlier than b. ISO dates compare
// lexically, which keeps this usable on malformed data without panicking.
func Before(a, b string) bool {
	return a < b
}

// Weekday returns the short weekday name for date, e.g. "Mon".
func Weekday(date string) string {
	t, err := Parse(date)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

// Label renders date relative to today the way the task list groups it.
func Label(date, today string) string {
	switch date {
	case today:
		return "TODAY"
	case AddDays(today, 1):
		return "TOMORROW"
	}
	t, err := Parse(date)
	if err != nil {
		return strings.ToUpper(date)
	}
	return strings.ToUpper(t.Format("Mon, Jan 2"))
}

const (
	layoutLoose = "2006-1-2"
	layoutShort = "1/2"
)

var (
	shortOffset = regexp.MustCompile(`^\+(\d+)([dw]?)$`)
	longOffset  = regexp.MustCompile(`^(?:in\s+)?(\d+)\s+(day|days|week|weeks)$`)
)

// ParseLoose accepts "2024-03-09", "2024-3-9", "3/9", "today", "tomorrow",
// offsets such as "+3", "+2w" or "3 days", and weekday names. A month/day
// without a year, like a weekday, lands on the next occurrence on or after
// today.
func ParseLoose(input, today string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "today":
		return today, nil
	case "tomorrow":
		return AddDays(today, 1), nil
	case "yesterday":
		return AddDays(today, -1), nil
	}
	if m := shortOffset.FindStringSubmatch(s); m != nil {
		return offset(today, m[1], m[2])
	}
	if m := longOffset.FindStringSubmatch(s); m != nil {
		return offset(today, m[1], m[2][:1])
	}
	if wd, ok := weekdays[s]; ok {
		now, err := Parse(today)
		if err != nil {
			return "", err
		}
		return AddDays(today, (int(wd)-int(now.Weekday())+7)%7), nil
	}
	if t, err := time.ParseInLocation(layoutLoose, s, time.Local); err == nil {
		return t.Format(Layout), nil
	}
	t, err := time.ParseInLocation(layoutShort, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("day: unrecognised date %q", input)
	}
	now, err := Parse(today)
	if err != nil {
		return "", err
	}
	t = t.AddDate(now.Year(), 0, 0)
	if t.Before(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t.Format(Layout), nil
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func offset(today, amount, unit string) (string, error) {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return "", fmt.Errorf("day: bad offset %q: %w", amount, err)
	}
	if unit == "w" {
		n *= 7
	}
	return AddDays(today, n), nil
}
