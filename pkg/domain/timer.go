package domain

import "time"

// Mode is a preset focus or break length.
type Mode struct {
	Label   string `json:"label"`
	Seconds int    `json:"seconds"`
	Break   int    `json:"break"`
}

// Modes are the selectable timer presets; Timer.ModeIdx indexes this slice.
var Modes = []Mode{
	{Label: "25 min Focus", Seconds: 25 * 60, Break: 5},
	{Label: "50 min Deep Focus", Seconds: 50 * 60, Break: 10},
	{Label: "5 min Break", Seconds: 5 * 60},
	{Label: "15 min Long Break", Seconds: 15 * 60},
}

// Timer is the persisted focus timer.
type Timer struct {
	ModeIdx           int    `json:"modeIdx"`
	SecondsLeft       int    `json:"secondsLeft"`
	IsRunning         bool   `json:"isRunning"`
	IsDone            bool   `json:"isDone"`
	FocusMinutesToday int    `json:"focusMinutesToday"`
	FocusDate         string `json:"focusDate"`

	// LastTick is when SecondsLeft was last brought up to date while running.
	LastTick *time.Time `json:"lastTick,omitempty"`

	// Unsynced is set when today's focus minutes grew and no push has
	// carried them yet.
	Unsynced bool `json:"unsynced,omitempty"`
}

// DefaultTimer is the state before the timer was ever used.
func DefaultTimer() Timer {
	return Timer{SecondsLeft: Modes[0].Seconds}
}

// Mode returns the selected preset, falling back to the first one.
func (t Timer) Mode() Mode {
	if t.ModeIdx < 0 || t.ModeIdx >= len(Modes) {
		return Modes[0]
	}
	return Modes[t.ModeIdx]
}

// FocusMinutesOn is the accumulated focus for date; stale days count as zero.
func (t Timer) FocusMinutesOn(date string) int {
	if t.FocusDate != date {
		return 0
	}
	return t.FocusMinutesToday
}

// Status is the human readable phase of the timer.
func (t Timer) Status() string {
	switch {
	case t.IsDone:
		return "Session complete"
	case t.IsRunning:
		return "Session in progress"
	case t.SecondsLeft < t.Mode().Seconds:
		return "Session paused"
	default:
		return "Ready to focus"
	}
}

// Advance counts the timer down by n seconds. When it reaches zero the
// session's minutes are credited to today exactly once and true is returned.
func (t *Timer) Advance(n int, today string) bool {
	if !t.IsRunning || t.IsDone || n <= 0 {
		return false
	}
	if t.SecondsLeft > n {
		t.SecondsLeft -= n
		return false
	}
	t.SecondsLeft = 0
	t.IsRunning = false
	t.IsDone = true
	t.LastTick = nil
	t.FocusMinutesToday = t.FocusMinutesOn(today) + t.Mode().Seconds/60
	t.FocusDate = today
	t.Unsynced = true
	return true
}
