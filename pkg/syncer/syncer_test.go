package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focusflow/pkg/domain"
)

type fakePusher struct {
	mu     sync.Mutex
	pushed []domain.Push
	err    error
}

func (f *fakePusher) PushToday(_ context.Context, p domain.Push) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, p)
	return f.err
}

func (f *fakePusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed)
}

func TestRapidSchedulesPushOnce(t *testing.T) {
	p := &fakePusher{}
	var focus atomic.Int64
	s := New(p, func() domain.Snapshot {
		return domain.Snapshot{Date: "2024-03-05", FocusMinutes: int(focus.Load())}
	}, 40*time.Millisecond)
	defer s.Stop()

	for i := 1; i <= 5; i++ {
		focus.Store(int64(i * 10))
		s.ScheduleSync()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, p.count())
	// Computed at fire time, so it carries the last change.
	assert.Equal(t, 50, p.pushed[0].FocusMinutes)
	assert.False(t, s.Pending())
}

func TestFailedPushIsDropped(t *testing.T) {
	p := &fakePusher{err: errors.New("offline")}
	s := New(p, func() domain.Snapshot { return domain.Snapshot{} }, 10*time.Millisecond)

	s.ScheduleSync()
	require.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 5*time.Millisecond)

	_, pushes, err := s.Last()
	assert.Equal(t, 1, pushes)
	assert.EqualError(t, err, "offline")

	// The next change triggers another attempt.
	s.ScheduleSync()
	require.Eventually(t, func() bool { return p.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestCloseFlushesPending(t *testing.T) {
	p := &fakePusher{}
	s := New(p, func() domain.Snapshot { return domain.Snapshot{WaterGlasses: 3} }, time.Hour)

	assert.False(t, s.Flush())
	s.ScheduleSync()
	assert.True(t, s.Pending())
	s.Close()
	assert.Equal(t, 1, p.count())
	assert.Equal(t, 3, p.pushed[0].WaterGlasses)
	assert.False(t, s.Pending())
}

func TestStopDropsPending(t *testing.T) {
	p := &fakePusher{}
	s := New(p, func() domain.Snapshot { return domain.Snapshot{} }, 10*time.Millisecond)
	s.ScheduleSync()
	s.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, p.count())
}

func TestHandleCancel(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { runs.Add(1) })

	first := d.Schedule()
	second := d.Schedule()
	assert.False(t, first.Cancel(), "superseded handle has nothing to cancel")
	assert.True(t, second.Cancel())
	assert.False(t, second.Cancel())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load())

	var nilHandle *Handle
	assert.False(t, nilHandle.Cancel())
}

func TestStaleFireIsIgnored(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })
	d.Schedule()
	gen := d.gen
	d.Schedule()

	// Simulate the first timer firing after it was superseded.
	d.fire(gen)
	assert.Zero(t, runs.Load())
	assert.True(t, d.Pending())
	d.Stop()
}
