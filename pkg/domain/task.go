package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority orders tasks that share a due date.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank sorts high before medium before low; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority accepts high/medium/low (or h/m/l, 3/2/1). Empty input is medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "high", "h", "3":
		return PriorityHigh, nil
	case "medium", "med", "m", "2":
		return PriorityMedium, nil
	case "low", "l", "1":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q, want high, medium or low", s)
}

// Status is the server-side lifecycle marker of a task.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// LocalIDPrefix marks ids minted on this device before the server acknowledged them.
const LocalIDPrefix = "local-"

// Task is one entry of the task list. The json names match the remote API.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Time        string     `json:"time"`
	Priority    Priority   `json:"priority"`
	Date        string     `json:"date"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Unsynced is set while a local edit has not been acknowledged remotely.
	Unsynced bool `json:"unsynced,omitempty"`
}

// Done reports whether the task belongs in the completed collection.
func (t Task) Done() bool {
	return t.Status == StatusCompleted
}

// Local reports whether the server has never seen this task.
func (t Task) Local() bool {
	return strings.HasPrefix(t.ID, LocalIDPrefix)
}

// Input returns the editable fields of t.
func (t Task) Input() TaskInput {
	return TaskInput{
		Title:    t.Title,
		Category: t.Category,
		Time:     t.Time,
		Priority: t.Priority,
		Date:     t.Date,
		Status:   t.Status,
	}
}

// TaskInput is the request body for create and full update.
type TaskInput struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Time     string   `json:"time"`
	Priority Priority `json:"priority"`
	Date     string   `json:"date"`
	Status   Status   `json:"status,omitempty"`
}

// PendingDelete is a task removed locally whose remote deletion waits for the
// undo window to close.
type PendingDelete struct {
	Task     Task      `json:"task"`
	Source   Status    `json:"source"`
	Deadline time.Time `json:"deadline"`
}

// Tasks is the persisted task domain. A task lives in exactly one of Active
// or Completed; Pending holds deletions that can still be undone.
type Tasks struct {
	Active    []Task          `json:"tasks"`
	Completed []Task          `json:"completed"`
	Pending   []PendingDelete `json:"pending,omitempty"`
}

// Less orders by due date, then priority.
func Less(a, b Task) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.Priority.Rank() < b.Priority.Rank()
}

// Sort orders tasks in place by date then priority, keeping insertion order for ties.
func Sort(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Find locates a task by id in either collection.
func (ts Tasks) Find(id string) (Task, bool) {
	for _, t := range ts.Active {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range ts.Completed {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Remove takes the task out of whichever collection holds it.
func (ts *Tasks) Remove(id string) (Task, bool) {
	for i, t := range ts.Active {
		if t.ID == id {
			ts.Active = append(ts.Active[:i:i], ts.Active[i+1:]...)
			return t, true
		}
	}
	for i, t := range ts.Completed {
		if t.ID == id {
			ts.Completed = append(ts.Completed[:i:i], ts.Completed[i+1:]...)
			return t, true
		}
	}
	return Task{}, false
}

// Put inserts or replaces t, placing it in the collection its status selects.
// A task is never left in both collections.
func (ts *Tasks) Put(t Task) {
	ts.Remove(t.ID)
	if t.Done() {
		ts.Completed = append(ts.Completed, t)
		Sort(ts.Completed)
		return
	}
	ts.Active = append(ts.Active, t)
	Sort(ts.Active)
}

// Rename swaps a local id for the id the server assigned.
func (ts *Tasks) Rename(from string, t Task) {
	ts.Remove(from)
	ts.Put(t)
}

// All returns active then completed tasks.
func (ts Tasks) All() []Task {
	out := make([]Task, 0, len(ts.Active)+len(ts.Completed))
	out = append(out, ts.Active...)
	return append(out, ts.Completed...)
}

// Unsynced returns the tasks that still owe the server an update.
func (ts Tasks) Unsynced() []Task {
	var out []Task
	for _, t := range ts.All() {
		if t.Unsynced {
			out = append(out, t)
		}
	}
	return out
}

// PendingIndex returns the position of the pending deletion for id, or -1.
func (ts Tasks) PendingIndex(id string) int {
	for i, p := range ts.Pending {
		if p.Task.ID == id {
			return i
		}
	}
	return -1
}

// CompletedOn counts completed tasks due on date.
func (ts Tasks) CompletedOn(date string) int {
	n := 0
	for _, t := range ts.Completed {
		if t.Date == date {
			n++
		}
	}
	return n
}

// ActiveOn returns the open tasks due on date.
func (ts Tasks) ActiveOn(date string) []Task {
	var out []Task
	for _, t := range ts.Active {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// TotalOn counts every task due on date.
func (ts Tasks) TotalOn(date string) int {
	return len(ts.ActiveOn(date)) + ts.CompletedOn(date)
}

// GroupByDate buckets active tasks by due date; the returned keys are sorted.
func (ts Tasks) GroupByDate(fallback string) ([]string, map[string][]Task) {
	groups := make(map[string][]Task)
	for _, t := range ts.Active {
		key := t.Date
		if key == "" {
			key = fallback
		}
		groups[key] = append(groups[key], t)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}
