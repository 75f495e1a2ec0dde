package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/focusflow/pkg/domain"
)

// Timer returns the focus timer, counted down to now if it is running.
func (s *Service) Timer() domain.Timer {
	return s.catchUp(s.tickGen.Load())
}

// catchUp advances a running timer by the whole seconds elapsed since its
// last tick. A tick from before the latest mode change or reset is
// dropped.
func (s *Service) catchUp(gen uint64) domain.Timer {
	st := s.Store()
	cur := st.LoadTimer()
	if !cur.IsRunning || cur.LastTick == nil {
		return cur
	}
	now := s.now()
	if now.Sub(*cur.LastTick) < time.Second {
		return cur
	}

	completed := false
	t := st.UpdateTimer(func(t *domain.Timer) {
		if gen != s.tickGen.Load() || !t.IsRunning || t.LastTick == nil {
			return
		}
		n := int(now.Sub(*t.LastTick) / time.Second)
		if n <= 0 {
			return
		}
		if t.Advance(n, s.clock.Today()) {
			completed = true
			return
		}
		next := t.LastTick.Add(time.Duration(n) * time.Second)
		t.LastTick = &next
	})
	if completed {
		s.log.Info("focus session complete", "mode", t.Mode().Label, "focusToday", t.FocusMinutesToday)
		s.changed(true)
	}
	return t
}

// Tick advances a running timer by one second.
func (s *Service) Tick() domain.Timer {
	completed := false
	now := s.now()
	t := s.Store().UpdateTimer(func(t *domain.Timer) {
		if !t.IsRunning {
			return
		}
		completed = t.Advance(1, s.clock.Today())
		if !completed {
			t.LastTick = &now
		}
	})
	if completed {
		s.changed(true)
	}
	return t
}

// RunTimer ticks a running timer every second until ctx is done. Views
// that stay open run it; one-shot commands rely on Timer catching up.
func (s *Service) RunTimer(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.catchUp(s.tickGen.Load())
		}
	}
}

// Start resumes or starts the countdown.
func (s *Service) Start() (domain.Timer, error) {
	cur := s.Timer()
	if cur.IsDone {
		return cur, ErrTimerDone
	}
	now := s.now()
	return s.Store().UpdateTimer(func(t *domain.Timer) {
		if t.IsRunning || t.IsDone {
			return
		}
		t.IsRunning = true
		t.LastTick = &now
	}), nil
}

// Pause stops the countdown, keeping the remaining time.
func (s *Service) Pause() domain.Timer {
	s.Timer()
	return s.Store().UpdateTimer(func(t *domain.Timer) {
		t.IsRunning = false
		t.LastTick = nil
	})
}

// Reset restores the full length of the current mode. It is refused while
// the timer runs.
func (s *Service) Reset() (domain.Timer, error) {
	cur := s.Timer()
	if cur.IsRunning {
		return cur, ErrTimerRunning
	}
	s.tickGen.Add(1)
	return s.Store().UpdateTimer(func(t *domain.Timer) {
		t.SecondsLeft = t.Mode().Seconds
		t.IsDone = false
		t.LastTick = nil
	}), nil
}

// SelectMode switches preset, stopping the countdown.
func (s *Service) SelectMode(i int) (domain.Timer, error) {
	if i < 0 || i >= len(domain.Modes) {
		return s.Timer(), fmt.Errorf("%w: mode %d, want 0 to %d", ErrValidation, i, len(domain.Modes)-1)
	}
	s.tickGen.Add(1)
	return s.Store().UpdateTimer(func(t *domain.Timer) {
		t.ModeIdx = i
		t.SecondsLeft = domain.Modes[i].Seconds
		t.IsRunning = false
		t.IsDone = false
		t.LastTick = nil
	}), nil
}
