// Package domain defines the four locally persisted domains (tasks, timer,
// health, motivation) and the records exchanged with the remote API.
package domain

// Goals are the thresholds that make a day count toward the streak.
type Goals struct {
	Tasks        int `json:"tasks" yaml:"tasks"`
	Water        int `json:"water" yaml:"water"`
	FocusMinutes int `json:"focus" yaml:"focus"`
}

// DefaultGoals is four tasks, five glasses and an hour of focus.
var DefaultGoals = Goals{Tasks: 4, Water: 5, FocusMinutes: 60}

// Met reports whether s clears every threshold.
func (g Goals) Met(s Snapshot) bool {
	return s.TasksCompleted >= g.Tasks &&
		s.WaterGlasses >= g.Water &&
		s.FocusMinutes >= g.FocusMinutes
}

// Snapshot is the per-day aggregate reconciled with the server.
type Snapshot struct {
	Date           string `json:"date" yaml:"date"`
	TasksCompleted int    `json:"tasksCompleted" yaml:"tasksCompleted"`
	TasksTotal     int    `json:"tasksTotal" yaml:"tasksTotal"`
	FocusMinutes   int    `json:"focusMinutes" yaml:"focusMinutes"`
	WaterGlasses   int    `json:"waterGlasses" yaml:"waterGlasses"`
	GoalsMet       bool   `json:"goalsMet" yaml:"goalsMet"`
}

// Push is the body of POST /stats/today; the server stamps the date itself.
type Push struct {
	TasksCompleted int `json:"tasksCompleted"`
	TasksTotal     int `json:"tasksTotal"`
	FocusMinutes   int `json:"focusMinutes"`
	WaterGlasses   int `json:"waterGlasses"`
}

// Push strips the fields the server derives.
func (s Snapshot) Push() Push {
	return Push{
		TasksCompleted: s.TasksCompleted,
		TasksTotal:     s.TasksTotal,
		FocusMinutes:   s.FocusMinutes,
		WaterGlasses:   s.WaterGlasses,
	}
}

// Summary is GET /dashboard/summary.
type Summary struct {
	TasksCompletedToday int `json:"tasksCompletedToday"`
	TotalTasksToday     int `json:"totalTasksToday"`
	PendingTasks        int `json:"pendingTasks"`
	WaterIntakeToday    int `json:"waterIntakeToday"`
	FocusMinutesToday   int `json:"focusMinutesToday"`
	CurrentStreak       int `json:"currentStreak"`
	BestStreak          int `json:"bestStreak"`
}
