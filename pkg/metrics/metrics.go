// Package metrics derives presentation aggregates from domain state and
// server snapshots. Every function is pure and returns zero, never NaN, on
// empty input.
package metrics

import (
	"math"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
)

// Today builds the snapshot for date from local state.
func Today(date string, tasks domain.Tasks, timer domain.Timer, health domain.Health, goals domain.Goals) domain.Snapshot {
	glasses := 0
	if health.Date == date {
		glasses = health.Glasses
	}
	s := domain.Snapshot{
		Date:           date,
		TasksCompleted: tasks.CompletedOn(date),
		TasksTotal:     tasks.TotalOn(date),
		FocusMinutes:   timer.FocusMinutesOn(date),
		WaterGlasses:   glasses,
	}
	s.GoalsMet = goals.Met(s)
	return s
}

// Percent is part/whole as a percentage clamped to [0, 100]. A non-positive
// whole yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return clamp(float64(part) / float64(whole) * 100)
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Progress is the per-goal breakdown behind Composite.
type Progress struct {
	Tasks     float64 `json:"tasks" yaml:"tasks"`
	Water     float64 `json:"water" yaml:"water"`
	Focus     float64 `json:"focus" yaml:"focus"`
	Composite int     `json:"composite" yaml:"composite"`
}

// Goal computes each goal's percentage and their rounded mean.
func Goal(s domain.Snapshot, g domain.Goals) Progress {
	p := Progress{
		Tasks: Percent(s.TasksCompleted, g.Tasks),
		Water: Percent(s.WaterGlasses, g.Water),
		Focus: Percent(s.FocusMinutes, g.FocusMinutes),
	}
	p.Composite = int(math.Round((p.Tasks + p.Water + p.Focus) / 3))
	return p
}

// Composite is today's overall progress toward the goals, 0 to 100.
func Composite(s domain.Snapshot, g domain.Goals) int {
	return Goal(s, g).Composite
}

// Bar is one day of a trend chart.
type Bar struct {
	Date     string `json:"date" yaml:"date"`
	Weekday  string `json:"weekday" yaml:"weekday"`
	Focus    int    `json:"focusMinutes" yaml:"focusMinutes"`
	Percent  int    `json:"percent" yaml:"percent"`
	GoalsMet bool   `json:"goalsMet" yaml:"goalsMet"`
	Today    bool   `json:"today,omitempty" yaml:"today,omitempty"`
}

// Bars returns one bar per day for the n days ending today, oldest first.
// Days without a snapshot are zero.
func Bars(snaps []domain.Snapshot, today string, n int, focusGoal int) []Bar {
	byDate := make(map[string]domain.Snapshot, len(snaps))
	for _, s := range snaps {
		byDate[s.Date] = s
	}
	days := day.Last(today, n)
	bars := make([]Bar, 0, len(days))
	for _, d := range days {
		s := byDate[d]
		bars = append(bars, Bar{
			Date:     d,
			Weekday:  day.Weekday(d),
			Focus:    s.FocusMinutes,
			Percent:  int(math.Round(Percent(s.FocusMinutes, focusGoal))),
			GoalsMet: s.GoalsMet,
			Today:    d == today,
		})
	}
	return bars
}

// Weekly is Bars over 7 days.
func Weekly(snaps []domain.Snapshot, today string, focusGoal int) []Bar {
	return Bars(snaps, today, 7, focusGoal)
}

// Monthly is Bars over 30 days.
func Monthly(snaps []domain.Snapshot, today string, focusGoal int) []Bar {
	return Bars(snaps, today, 30, focusGoal)
}

// CompletionRate is the mean daily completed/total ratio as a rounded
// percentage. Days with no tasks count as 0.
func CompletionRate(snaps []domain.Snapshot) int {
	if len(snaps) == 0 {
		return 0
	}
	var sum float64
	for _, s := range snaps {
		if s.TasksTotal > 0 {
			sum += float64(s.TasksCompleted) / float64(s.TasksTotal)
		}
	}
	return int(clamp(math.Round(sum / float64(len(snaps)) * 100)))
}

// WaterAverage is the mean glasses per day, to one decimal.
func WaterAverage(snaps []domain.Snapshot) float64 {
	if len(snaps) == 0 {
		return 0
	}
	sum := 0
	for _, s := range snaps {
		sum += s.WaterGlasses
	}
	return math.Round(float64(sum)/float64(len(snaps))*10) / 10
}

// TotalFocus sums focus minutes.
func TotalFocus(snaps []domain.Snapshot) int {
	total := 0
	for _, s := range snaps {
		total += s.FocusMinutes
	}
	return total
}

// TotalTasks sums completed tasks.
func TotalTasks(snaps []domain.Snapshot) int {
	total := 0
	for _, s := range snaps {
		total += s.TasksCompleted
	}
	return total
}

// GoalsMetCount counts the days that met every goal.
func GoalsMetCount(snaps []domain.Snapshot) int {
	n := 0
	for _, s := range snaps {
		if s.GoalsMet {
			n++
		}
	}
	return n
}

// Report is the analytics view over one period.
type Report struct {
	Period         string  `json:"period" yaml:"period"`
	Days           int     `json:"days" yaml:"days"`
	TotalFocus     int     `json:"totalFocusMinutes" yaml:"totalFocusMinutes"`
	FocusHours     float64 `json:"focusHours" yaml:"focusHours"`
	TotalTasks     int     `json:"tasksCompleted" yaml:"tasksCompleted"`
	WaterAverage   float64 `json:"waterAverage" yaml:"waterAverage"`
	CompletionRate int     `json:"completionRate" yaml:"completionRate"`
	GoalsMet       int     `json:"goalsMet" yaml:"goalsMet"`
	Streak         int     `json:"streak" yaml:"streak"`
	Bars           []Bar   `json:"bars" yaml:"bars"`
}

// Analyze builds the report for the n days ending today.
func Analyze(period string, snaps []domain.Snapshot, streak int, today string, n int, g domain.Goals) Report {
	focus := TotalFocus(snaps)
	return Report{
		Period:         period,
		Days:           n,
		TotalFocus:     focus,
		FocusHours:     math.Round(float64(focus)/60*10) / 10,
		TotalTasks:     TotalTasks(snaps),
		WaterAverage:   WaterAverage(snaps),
		CompletionRate: CompletionRate(snaps),
		GoalsMet:       GoalsMetCount(snaps),
		Streak:         streak,
		Bars:           Bars(snaps, today, n, g.FocusMinutes),
	}
}

// TopPending returns up to n active tasks due on date, highest priority first.
func TopPending(tasks domain.Tasks, date string, n int) []domain.Task {
	due := tasks.ActiveOn(date)
	domain.Sort(due)
	if len(due) > n {
		due = due[:n]
	}
	return due
}
