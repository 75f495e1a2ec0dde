// Package syncer pushes today's aggregate snapshot to the server after local
// changes settle.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/logging"
)

// DefaultDelay is the quiet period before a push.
const DefaultDelay = time.Second

// Pusher sends a snapshot upstream.
type Pusher interface {
	PushToday(ctx context.Context, p domain.Push) error
}

// Scheduler coalesces ScheduleSync calls into a single push. The snapshot
// is computed when the window closes, not when it opens, so the push
// reflects every change made during the window.
type Scheduler struct {
	pusher   Pusher
	snapshot func() domain.Snapshot
	deb      *Debouncer
	log      *slog.Logger

	mu      sync.Mutex // serializes pushes
	last    domain.Snapshot
	lastErr error
	pushes  int
}

// New returns a scheduler. delay <= 0 uses DefaultDelay.
func New(p Pusher, snapshot func() domain.Snapshot, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Scheduler{
		pusher:   p,
		snapshot: snapshot,
		log:      logging.Sync(),
	}
	s.deb = NewDebouncer(delay, s.fire)
	return s
}

// ScheduleSync (re)starts the quiet period.
func (s *Scheduler) ScheduleSync() *Handle {
	return s.deb.Schedule()
}

// Pending reports whether a push is waiting for its window.
func (s *Scheduler) Pending() bool {
	return s.deb.Pending()
}

// Flush pushes now if a push was pending.
func (s *Scheduler) Flush() bool {
	return s.deb.Flush()
}

// Stop drops any pending push.
func (s *Scheduler) Stop() {
	s.deb.Stop()
}

// Close flushes the pending push, if any, and then stops.
func (s *Scheduler) Close() {
	s.Flush()
	s.Stop()
}

// Push computes and sends the snapshot immediately. Unlike the debounced
// path it returns the error.
func (s *Scheduler) Push(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := s.pusher.PushToday(ctx, snap.Push())
	s.last, s.lastErr = snap, err
	s.pushes++
	return snap, err
}

// Last is the most recent snapshot pushed, the number of pushes so far and
// the outcome of the last one.
func (s *Scheduler) Last() (domain.Snapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.pushes, s.lastErr
}

func (s *Scheduler) fire() {
	snap, err := s.Push(context.Background())
	if err != nil {
		s.log.Warn("push dropped", "date", snap.Date, "err", err)
		return
	}
	s.log.Debug("pushed", "date", snap.Date, "tasks", snap.TasksCompleted, "focus", snap.FocusMinutes, "water", snap.WaterGlasses)
}
