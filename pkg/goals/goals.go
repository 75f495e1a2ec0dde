// Package goals awards the daily streak.
package goals

import (
	"fmt"
	"log/slog"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/logging"
	"tableflip.dev/focusflow/pkg/metrics"
	"tableflip.dev/focusflow/pkg/store"
)

// Policy decides what happens to the streak after a missed day.
type Policy string

const (
	// Keep never decrements the streak.
	Keep Policy = "keep"
	// Reset zeroes the streak once a full day passed without an award.
	Reset Policy = "reset"
)

// ParsePolicy accepts keep or reset. Empty is keep.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Keep:
		return Keep, nil
	case Reset:
		return Reset, nil
	}
	return "", fmt.Errorf("goals: unknown streak policy %q, want keep or reset", s)
}

// Result describes what one Evaluate call did.
type Result struct {
	Snapshot domain.Snapshot
	Awarded  bool
	Broken   bool
}

// Evaluator checks today's progress against the goals.
type Evaluator struct {
	store  *store.Store
	goals  domain.Goals
	policy Policy
	log    *slog.Logger
}

// New returns an evaluator over s.
func New(s *store.Store, g domain.Goals, p Policy) *Evaluator {
	if p == "" {
		p = Keep
	}
	return &Evaluator{store: s, goals: g, policy: p, log: logging.Goals()}
}

// Goals are the thresholds in use.
func (e *Evaluator) Goals() domain.Goals {
	return e.goals
}

// Evaluate awards today's streak increment if every goal is met. It is safe
// to call any number of times a day; only the first qualifying call writes.
func (e *Evaluator) Evaluate() Result {
	today := e.store.Clock().Today()
	m := e.store.LoadMotivation()
	if m.StreakAwardedDate == today {
		return Result{}
	}

	broken := e.broken(m, today)
	snap := metrics.Today(today, e.store.LoadTasks(), e.store.LoadTimer(), e.store.LoadHealth(), e.goals)
	if !snap.GoalsMet && !broken {
		return Result{Snapshot: snap}
	}

	var res Result
	e.store.ChangeMotivation(func(m *domain.Motivation) bool {
		// Re-check under the store lock; another caller may have won.
		if m.StreakAwardedDate == today {
			return false
		}
		if e.broken(*m, today) {
			m.Streak = 0
			res.Broken = true
		}
		if snap.GoalsMet {
			res.Awarded = m.Award(today)
		}
		return res.Broken || res.Awarded
	})
	res.Snapshot = snap
	if res.Awarded {
		e.log.Info("streak awarded", "date", today)
	}
	if res.Broken {
		e.log.Info("streak reset after missed day", "date", today)
	}
	return res
}

func (e *Evaluator) broken(m domain.Motivation, today string) bool {
	if e.policy != Reset || m.Streak == 0 || m.StreakAwardedDate == "" {
		return false
	}
	return day.Before(m.StreakAwardedDate, day.AddDays(today, -1))
}
