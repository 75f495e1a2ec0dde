package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/metrics"
	"tableflip.dev/focusflow/pkg/remote"
)

// DashboardReport is the home view: today's goals, the next tasks and the
// week's focus trend.
type DashboardReport struct {
	Date       string           `json:"date" yaml:"date"`
	Name       string           `json:"name,omitempty" yaml:"name,omitempty"`
	Snapshot   domain.Snapshot  `json:"today" yaml:"today"`
	Progress   metrics.Progress `json:"progress" yaml:"progress"`
	Pending    int              `json:"pendingTasks" yaml:"pendingTasks"`
	Top        []domain.Task    `json:"top" yaml:"top"`
	Streak     int              `json:"streak" yaml:"streak"`
	Best       int              `json:"best" yaml:"best"`
	Mood       domain.Mood      `json:"mood,omitempty" yaml:"mood,omitempty"`
	Quote      domain.Quote     `json:"quote" yaml:"quote"`
	Week       []metrics.Bar    `json:"week" yaml:"week"`
	Goals      domain.Goals     `json:"goals" yaml:"goals"`
	FromServer bool             `json:"fromServer" yaml:"fromServer"`
	Summary    *domain.Summary  `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Dashboard refreshes from the server when signed in and builds the home
// view. The server is authoritative for the day's aggregates and streak;
// local values it would overwrite are kept while a push is still pending.
// On a remote failure the view is built from the cache and the error is
// returned alongside it.
func (s *Service) Dashboard(ctx context.Context) (DashboardReport, error) {
	today := s.clock.Today()
	var (
		summary *domain.Summary
		week    []domain.Snapshot
		errs    []error
	)
	if err := s.FlushDeletions(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.Online() {
		if sum, err := s.remote.Summary(ctx); err != nil {
			errs = append(errs, err)
		} else {
			summary = &sum
			s.adoptSummary(sum, today)
		}
		if _, err := s.Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
		if snaps, err := s.remote.Stats(ctx, remote.Weekly); err != nil {
			errs = append(errs, err)
		} else {
			week = snaps
		}
	}

	st := s.Store()
	tasks := st.LoadTasks()
	snap := s.Snapshot()
	mot := st.LoadMotivation()
	health := st.LoadHealth()

	// Today's bar always reflects the local figure, which may be ahead of
	// the last push.
	week = withToday(week, snap)

	r := DashboardReport{
		Date:       today,
		Name:       s.keeper.Get().Name,
		Snapshot:   snap,
		Progress:   metrics.Goal(snap, s.targets),
		Pending:    len(tasks.ActiveOn(today)),
		Top:        metrics.TopPending(tasks, today, 3),
		Streak:     mot.Streak,
		Best:       mot.Best,
		Mood:       health.Mood,
		Quote:      mot.Quote(),
		Week:       metrics.Weekly(week, today, s.targets.FocusMinutes),
		Goals:      s.targets,
		FromServer: summary != nil,
		Summary:    summary,
	}
	return r, errors.Join(errs...)
}

// adoptSummary copies the server's aggregates into the store. Values with
// local changes the server has not acknowledged are left alone, and so is
// a streak awarded today before the push that reports it.
func (s *Service) adoptSummary(sum domain.Summary, today string) {
	st := s.Store()
	pending := s.sched.Pending()
	ahead := s.ahead()

	// A server that already counts today in its streak has awarded it.
	counted := s.targets.Met(domain.Snapshot{
		TasksCompleted: sum.TasksCompletedToday,
		WaterGlasses:   sum.WaterIntakeToday,
		FocusMinutes:   sum.FocusMinutesToday,
	})
	st.ChangeMotivation(func(m *domain.Motivation) bool {
		if ahead && m.StreakAwardedDate == today {
			return false
		}
		if m.Streak == sum.CurrentStreak && m.Best == sum.BestStreak && (!counted || m.StreakAwardedDate == today) {
			return false
		}
		m.Streak = sum.CurrentStreak
		m.Best = sum.BestStreak
		if counted {
			m.StreakAwardedDate = today
		}
		return true
	})

	adopted := false
	if h := st.LoadHealth(); !pending && !h.Unsynced && h.Glasses != sum.WaterIntakeToday {
		st.UpdateHealth(func(h *domain.Health) {
			if h.Unsynced {
				return
			}
			h.Glasses = sum.WaterIntakeToday
			h.Clamp(s.max)
		})
		adopted = true
	}
	if t := st.LoadTimer(); !pending && !t.Unsynced && t.FocusMinutesOn(today) != sum.FocusMinutesToday {
		st.UpdateTimer(func(t *domain.Timer) {
			if t.Unsynced {
				return
			}
			t.FocusMinutesToday = sum.FocusMinutesToday
			t.FocusDate = today
		})
		adopted = true
	}
	if adopted {
		s.eval().Evaluate()
	}
}

func withToday(snaps []domain.Snapshot, today domain.Snapshot) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(snaps)+1)
	for _, sn := range snaps {
		if sn.Date != today.Date {
			out = append(out, sn)
		}
	}
	return append(out, today)
}

// Analytics builds the trend report for p from the server's snapshots.
func (s *Service) Analytics(ctx context.Context, p remote.Period) (metrics.Report, error) {
	return s.analytics(ctx, p, p.Days(), string(p))
}

// AnalyticsDays is Analytics over the last n days, at most a month.
func (s *Service) AnalyticsDays(ctx context.Context, n int) (metrics.Report, error) {
	if n < 1 || n > remote.Monthly.Days() {
		return metrics.Report{}, fmt.Errorf("%w: %d days, want 1 to %d", ErrValidation, n, remote.Monthly.Days())
	}
	p := remote.Weekly
	if n > p.Days() {
		p = remote.Monthly
	}
	label := string(p)
	if n != p.Days() {
		label = "custom"
	}
	return s.analytics(ctx, p, n, label)
}

func (s *Service) analytics(ctx context.Context, p remote.Period, n int, label string) (metrics.Report, error) {
	today := s.clock.Today()
	if !s.Online() {
		return metrics.Analyze(label, nil, s.Motivation().Streak, today, n, s.targets), ErrSignedOut
	}
	snaps, err := s.remote.Stats(ctx, p)
	if err != nil {
		return metrics.Analyze(label, nil, s.Motivation().Streak, today, n, s.targets), err
	}
	streak, err := s.remote.Streak(ctx)
	if err != nil {
		s.log.Warn("streak unavailable, using cached", "err", err)
		streak = s.Motivation().Streak
	}
	return metrics.Analyze(label, within(snaps, today, n), streak, today, n, s.targets), nil
}

// within keeps the snapshots of the n days ending today.
func within(snaps []domain.Snapshot, today string, n int) []domain.Snapshot {
	keep := make(map[string]bool, n)
	for _, d := range day.Last(today, n) {
		keep[d] = true
	}
	out := make([]domain.Snapshot, 0, len(snaps))
	for _, sn := range snaps {
		if keep[sn.Date] {
			out = append(out, sn)
		}
	}
	return out
}
