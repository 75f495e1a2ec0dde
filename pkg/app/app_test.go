package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/events"
	"tableflip.dev/focusflow/pkg/remote"
	"tableflip.dev/focusflow/pkg/session"
	"tableflip.dev/focusflow/pkg/store"
)

const today = "2024-03-05"

type fakeRemote struct {
	mu      sync.Mutex
	calls   []string
	nextID  int
	tasks   map[string]domain.Task
	fail    error
	pushes  []domain.Push
	summary domain.Summary
	stats   []domain.Snapshot
	streak  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{tasks: make(map[string]domain.Task)}
}

func (f *fakeRemote) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail
}

func (f *fakeRemote) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Login(_ context.Context, email, _ string) (session.Session, error) {
	if err := f.record("login"); err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: "tok", Name: "Ada", UserID: email}, nil
}

func (f *fakeRemote) Signup(context.Context, string, string, string) error {
	return f.record("signup")
}

func (f *fakeRemote) Tasks(context.Context, string) ([]domain.Task, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	domain.Sort(out)
	return out, nil
}

func (f *fakeRemote) CreateTask(_ context.Context, in domain.TaskInput) (domain.Task, error) {
	if err := f.record("create"); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := domain.Task{
		ID: fmt.Sprintf("srv-%d", f.nextID), Title: in.Title, Category: in.Category,
		Time: in.Time, Priority: in.Priority, Date: in.Date, Status: domain.StatusActive,
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeRemote) ToggleTask(_ context.Context, id string) (domain.Task, error) {
	if err := f.record("toggle " + id); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tasks[id]
	if t.Done() {
		t.Status = domain.StatusActive
	} else {
		t.Status = domain.StatusCompleted
	}
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRemote) UpdateTask(_ context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	if err := f.record("update " + id); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := domain.Task{
		ID: id, Title: in.Title, Category: in.Category, Time: in.Time,
		Priority: in.Priority, Date: in.Date, Status: in.Status,
	}
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRemote) DeleteTask(_ context.Context, id string) error {
	if err := f.record("delete " + id); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.tasks, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Summary(context.Context) (domain.Summary, error) {
	return f.summary, f.record("summary")
}

func (f *fakeRemote) Stats(context.Context, remote.Period) ([]domain.Snapshot, error) {
	return f.stats, f.record("stats")
}

func (f *fakeRemote) Streak(context.Context) (int, error) {
	return f.streak, f.record("streak")
}

func (f *fakeRemote) PushToday(_ context.Context, p domain.Push) error {
	if err := f.record("push"); err != nil {
		return err
	}
	f.mu.Lock()
	f.pushes = append(f.pushes, p)
	f.mu.Unlock()
	return nil
}

type fixture struct {
	svc    *Service
	remote *fakeRemote
	now    time.Time
	bus    *events.Bus
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()
	b := store.NewMemoryBackend()
	keeper := session.NewKeeper(b)
	if signedIn {
		keeper.Set(session.Session{Token: "tok", Name: "Ada", UserID: "ada"})
	}
	f := &fixture{
		remote: newFakeRemote(),
		now:    time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local),
		bus:    events.New(),
	}
	f.svc = New(Options{
		Backend:  b,
		Remote:   f.remote,
		Session:  keeper,
		Bus:      f.bus,
		Clock:    day.Fixed(today),
		Now:      func() time.Time { return f.now },
		Debounce: time.Hour,
		Undo:     5 * time.Second,
	})
	t.Cleanup(f.svc.Close)
	return f
}

func TestAddTaskAsGuestStaysLocal(t *testing.T) {
	f := newFixture(t, false)
	task, err := f.svc.AddTask(context.Background(), domain.TaskInput{Title: "  write  "})
	require.NoError(t, err)

	assert.True(t, task.Local())
	assert.True(t, task.Unsynced)
	assert.Equal(t, "write", task.Title)
	assert.Equal(t, DefaultCategory, task.Category)
	assert.Equal(t, "25 min", task.Time)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, today, task.Date)
	assert.Empty(t, f.remote.Calls())
	assert.Equal(t, store.Guest, f.svc.Store().Namespace())
}

func TestAddTaskOnlineAdoptsServerID(t *testing.T) {
	f := newFixture(t, true)
	got := 0
	f.bus.Subscribe(events.TasksChanged, func(events.Event) { got++ })

	task, err := f.svc.AddTask(context.Background(), domain.TaskInput{Title: "read", Time: "45", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", task.ID)
	assert.False(t, task.Unsynced)
	assert.Equal(t, "45 min", task.Time)

	tasks := f.svc.Tasks()
	require.Len(t, tasks.Active, 1)
	assert.Equal(t, "srv-1", tasks.Active[0].ID)
	assert.GreaterOrEqual(t, got, 2, "local insert and settle both notify")
	assert.True(t, f.svc.SyncPending())
}

func TestAddTaskValidation(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.AddTask(context.Background(), domain.TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddTask(context.Background(), domain.TaskInput{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddTask(context.Background(), domain.TaskInput{Title: "x", Date: "someday"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.remote.Calls())
	assert.Empty(t, f.svc.Tasks().Active)
}

func TestRemoteFailureKeepsEditUnsynced(t *testing.T) {
	f := newFixture(t, true)
	f.remote.setFail(errors.New("offline"))

	task, err := f.svc.AddTask(context.Background(), domain.TaskInput{Title: "plan"})
	var se *SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "add", se.Op)
	assert.True(t, task.Local())
	assert.True(t, task.Unsynced)
	require.Len(t, f.svc.Tasks().Active, 1)

	f.remote.setFail(nil)
	n, err := f.svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tasks := f.svc.Tasks()
	require.Len(t, tasks.Active, 1)
	assert.Equal(t, "srv-1", tasks.Active[0].ID)
	assert.Empty(t, tasks.Unsynced())
}

func seed(t *testing.T, f *fixture, tasks ...domain.Task) {
	t.Helper()
	f.svc.Store().UpdateTasks(func(ts *domain.Tasks) {
		for _, task := range tasks {
			ts.Put(task)
			f.remote.tasks[task.ID] = task
		}
	})
}

func activeIDs(ts domain.Tasks) []string {
	var ids []string
	for _, t := range ts.Active {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestDoubleToggleRestoresPosition(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f,
		domain.Task{ID: "a", Title: "a", Date: today, Priority: domain.PriorityHigh, Status: domain.StatusActive},
		domain.Task{ID: "b", Title: "b", Date: today, Priority: domain.PriorityMedium, Status: domain.StatusActive},
		domain.Task{ID: "c", Title: "c", Date: today, Priority: domain.PriorityLow, Status: domain.StatusActive},
	)
	before := activeIDs(f.svc.Tasks())

	done, err := f.svc.Toggle(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, done.Done())
	require.NotNil(t, done.CompletedAt)
	ts := f.svc.Tasks()
	assert.Equal(t, []string{"a", "c"}, activeIDs(ts))
	require.Len(t, ts.Completed, 1)

	back, err := f.svc.Toggle(context.Background(), "b")
	require.NoError(t, err)
	assert.False(t, back.Done())
	assert.Nil(t, back.CompletedAt)
	ts = f.svc.Tasks()
	assert.Equal(t, before, activeIDs(ts))
	assert.Empty(t, ts.Completed)
	assert.Empty(t, ts.Unsynced())

	assert.Equal(t, []string{"toggle b", "toggle b"}, f.remote.Calls())
}

func TestToggleUnsyncedUsesFullUpdate(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f, domain.Task{ID: "a", Title: "a", Date: today, Status: domain.StatusActive, Unsynced: true})

	task, err := f.svc.Toggle(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, task.Done())
	assert.False(t, task.Unsynced)
	assert.Equal(t, []string{"update a"}, f.remote.Calls())
	assert.Equal(t, domain.StatusCompleted, f.remote.tasks["a"].Status)
}

func TestToggleMissingTask(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Toggle(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenUndoRestoresSorted(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f,
		domain.Task{ID: "a", Title: "a", Date: today, Priority: domain.PriorityHigh, Status: domain.StatusActive},
		domain.Task{ID: "b", Title: "b", Date: today, Priority: domain.PriorityMedium, Status: domain.StatusActive},
		domain.Task{ID: "c", Title: "c", Date: "2024-03-06", Priority: domain.PriorityHigh, Status: domain.StatusActive},
	)
	original, _ := f.svc.Tasks().Find("b")

	pd, err := f.svc.Delete(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, pd.Source)
	assert.Equal(t, []string{"a", "c"}, activeIDs(f.svc.Tasks()))

	f.advance(3 * time.Second)
	require.NoError(t, f.svc.FlushDeletions(context.Background()))
	restored, err := f.svc.Undo(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, original, restored)
	ts := f.svc.Tasks()
	assert.Equal(t, []string{"a", "b", "c"}, activeIDs(ts))
	assert.Empty(t, ts.Pending)
	assert.NotContains(t, f.remote.Calls(), "delete b")
}

func TestDeleteCompletedUndoReturnsToCompleted(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f, domain.Task{ID: "z", Title: "z", Date: today, Status: domain.StatusCompleted})

	_, err := f.svc.Delete(context.Background(), "z")
	require.NoError(t, err)
	assert.Empty(t, f.svc.Tasks().Completed)

	task, err := f.svc.Undo(context.Background(), "z")
	require.NoError(t, err)
	assert.True(t, task.Done())
	require.Len(t, f.svc.Tasks().Completed, 1)
}

func TestDeleteIsSentAfterUndoWindow(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f, domain.Task{ID: "a", Title: "a", Date: today, Status: domain.StatusActive})

	_, err := f.svc.Delete(context.Background(), "a")
	require.NoError(t, err)
	f.advance(6 * time.Second)

	_, err = f.svc.Undo(context.Background(), "a")
	assert.ErrorIs(t, err, ErrUndoExpired)

	require.NoError(t, f.svc.FlushDeletions(context.Background()))
	assert.Equal(t, []string{"delete a"}, f.remote.Calls())
	assert.Empty(t, f.svc.Tasks().Pending)

	// Nothing left to send.
	require.NoError(t, f.svc.FlushDeletions(context.Background()))
	assert.Len(t, f.remote.Calls(), 1)
}

func TestRefreshKeepsUnsyncedAndPending(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f,
		domain.Task{ID: "a", Title: "a", Date: today, Status: domain.StatusActive},
		domain.Task{ID: "b", Title: "b", Date: today, Status: domain.StatusActive},
	)
	f.remote.tasks["s"] = domain.Task{ID: "s", Title: "from server", Date: today, Status: domain.StatusCompleted}

	f.remote.setFail(errors.New("offline"))
	_, err := f.svc.Edit(context.Background(), "a", TaskPatch{Title: strPtr("a, edited offline")})
	require.Error(t, err)
	_, err = f.svc.Delete(context.Background(), "b")
	require.NoError(t, err)
	_, err = f.svc.AddTask(context.Background(), domain.TaskInput{Title: "draft"})
	require.Error(t, err)

	cached, err := f.svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, cached.Active, 2)

	f.remote.setFail(nil)
	ts, err := f.svc.Refresh(context.Background())
	require.NoError(t, err)

	a, ok := ts.Find("a")
	require.True(t, ok)
	assert.Equal(t, "a, edited offline", a.Title)
	_, ok = ts.Find("b")
	assert.False(t, ok, "pending deletion must not come back")
	_, ok = ts.Find("s")
	assert.True(t, ok)
	assert.Len(t, ts.Unsynced(), 2)
}

func strPtr(s string) *string { return &s }

func TestEditAndReschedule(t *testing.T) {
	f := newFixture(t, true)
	seed(t, f, domain.Task{ID: "a", Title: "a", Date: today, Priority: domain.PriorityLow, Status: domain.StatusActive})

	task, err := f.svc.Edit(context.Background(), "a", TaskPatch{Priority: strPtr("high"), Category: strPtr("Work")})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, "Work", task.Category)

	task, err = f.svc.Reschedule(context.Background(), "a", "tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", task.Date)
	assert.Equal(t, []string{"update a", "update a"}, f.remote.Calls())

	_, err = f.svc.Edit(context.Background(), "a", TaskPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Edit(context.Background(), "missing", TaskPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimerCountsDownAndCredits(t *testing.T) {
	f := newFixture(t, false)

	tm, err := f.svc.Start()
	require.NoError(t, err)
	assert.True(t, tm.IsRunning)

	f.advance(10 * time.Minute)
	tm = f.svc.Timer()
	assert.Equal(t, 15*60, tm.SecondsLeft)

	tm = f.svc.Pause()
	assert.False(t, tm.IsRunning)
	f.advance(time.Hour)
	assert.Equal(t, 15*60, f.svc.Timer().SecondsLeft)

	_, err = f.svc.Start()
	require.NoError(t, err)
	_, err = f.svc.Reset()
	assert.ErrorIs(t, err, ErrTimerRunning)

	f.advance(20 * time.Minute)
	tm = f.svc.Timer()
	assert.True(t, tm.IsDone)
	assert.False(t, tm.IsRunning)
	assert.Equal(t, 25, tm.FocusMinutesToday)

	// Completion is credited once.
	f.advance(time.Hour)
	assert.Equal(t, 25, f.svc.Timer().FocusMinutesToday)
	_, err = f.svc.Start()
	assert.ErrorIs(t, err, ErrTimerDone)

	tm, err = f.svc.Reset()
	require.NoError(t, err)
	assert.False(t, tm.IsDone)
	assert.Equal(t, 25*60, tm.SecondsLeft)
	assert.Equal(t, 25, tm.FocusMinutesToday)
}

func TestSelectModeCancelsCountdown(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Start()
	require.NoError(t, err)
	f.advance(time.Minute)

	tm, err := f.svc.SelectMode(1)
	require.NoError(t, err)
	assert.False(t, tm.IsRunning)
	assert.Equal(t, 50*60, tm.SecondsLeft)

	f.advance(time.Hour)
	assert.Equal(t, 50*60, f.svc.Timer().SecondsLeft)

	_, err = f.svc.SelectMode(9)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStaleTickIsDropped(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Start()
	require.NoError(t, err)
	gen := f.svc.tickGen.Load()

	_, err = f.svc.SelectMode(2)
	require.NoError(t, err)
	_, err = f.svc.Start()
	require.NoError(t, err)
	f.advance(2 * time.Second)

	tm := f.svc.catchUp(gen)
	assert.Equal(t, 5*60, tm.SecondsLeft)
	tm = f.svc.catchUp(f.svc.tickGen.Load())
	assert.Equal(t, 5*60-2, tm.SecondsLeft)
}

func TestTick(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.SelectMode(2)
	require.NoError(t, err)
	assert.Equal(t, 5*60, f.svc.Tick().SecondsLeft, "paused timer does not tick")

	_, err = f.svc.Start()
	require.NoError(t, err)
	for i := 0; i < 5*60; i++ {
		f.svc.Tick()
	}
	tm := f.svc.Timer()
	assert.True(t, tm.IsDone)
	assert.Equal(t, 5, tm.FocusMinutesToday)
}

func TestWaterIsBounded(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < 12; i++ {
		f.svc.AddWater()
	}
	h := f.svc.Health()
	assert.Equal(t, domain.DefaultWaterMax, h.Glasses)
	assert.Equal(t, 2000, h.Millilitres())

	for i := 0; i < 12; i++ {
		f.svc.RemoveWater()
	}
	assert.Zero(t, f.svc.Health().Glasses)

	h = f.svc.SetMood(domain.MoodGood)
	assert.Equal(t, domain.MoodGood, h.Mood)
}

func TestGoalsAwardStreakOnce(t *testing.T) {
	f := newFixture(t, false)
	f.svc.Store().UpdateTasks(func(ts *domain.Tasks) {
		for i := 0; i < 4; i++ {
			ts.Put(domain.Task{ID: fmt.Sprint(i), Date: today, Status: domain.StatusCompleted})
		}
	})
	f.svc.Store().UpdateTimer(func(tm *domain.Timer) { tm.FocusMinutesToday = 60 })
	for i := 0; i < 5; i++ {
		f.svc.AddWater()
	}
	for i := 0; i < 3; i++ {
		f.svc.AddWater()
	}
	m := f.svc.Motivation()
	assert.Equal(t, 1, m.Streak)
	assert.Equal(t, 1, m.Best)
	assert.Equal(t, today, m.StreakAwardedDate)
}

func TestQuotes(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < len(domain.Quotes); i++ {
		f.svc.NextQuote()
	}
	assert.Zero(t, f.svc.Motivation().QIdx)

	m, err := f.svc.ToggleLike(-1)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, m.Liked)
	m, err = f.svc.ToggleLike(0)
	require.NoError(t, err)
	assert.Empty(t, m.Liked)

	m, err = f.svc.ToggleStar(3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, m.Starred)

	_, err = f.svc.ToggleStar(len(domain.Quotes))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCloseFlushesPendingPush(t *testing.T) {
	f := newFixture(t, true)
	f.svc.AddWater()
	f.svc.AddWater()
	assert.True(t, f.svc.SyncPending())

	f.svc.Close()
	require.Len(t, f.remote.pushes, 1)
	assert.Equal(t, 2, f.remote.pushes[0].WaterGlasses)
}

func TestGuestDoesNotSchedulePush(t *testing.T) {
	f := newFixture(t, false)
	f.svc.AddWater()
	assert.False(t, f.svc.SyncPending())
	_, err := f.svc.SyncNow(context.Background())
	assert.ErrorIs(t, err, ErrSignedOut)
}

func TestDashboardAdoptsServerAggregates(t *testing.T) {
	f := newFixture(t, true)
	f.svc.Store().SaveMotivation(domain.Motivation{Streak: 1, Best: 1})
	f.remote.summary = domain.Summary{WaterIntakeToday: 4, FocusMinutesToday: 50, CurrentStreak: 6, BestStreak: 9}
	f.remote.stats = []domain.Snapshot{{Date: "2024-03-04", FocusMinutes: 30}}
	f.remote.tasks["x"] = domain.Task{ID: "x", Title: "x", Date: today, Priority: domain.PriorityHigh, Status: domain.StatusActive}

	r, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, r.FromServer)
	assert.Equal(t, 6, r.Streak)
	assert.Equal(t, 9, r.Best)
	assert.Equal(t, 4, r.Snapshot.WaterGlasses)
	assert.Equal(t, 50, r.Snapshot.FocusMinutes)
	assert.Equal(t, 1, r.Pending)
	require.Len(t, r.Top, 1)
	require.Len(t, r.Week, 7)
	assert.Equal(t, 50, r.Week[5].Percent)
	assert.Equal(t, 83, r.Week[6].Percent)
	assert.Equal(t, 4, f.svc.Health().Glasses)
}

func TestDashboardKeepsLocalWhilePushPending(t *testing.T) {
	f := newFixture(t, true)
	f.svc.AddWater()
	f.svc.AddWater()
	require.True(t, f.svc.SyncPending())
	f.remote.summary = domain.Summary{WaterIntakeToday: 0, CurrentStreak: 2, BestStreak: 4}

	r, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Snapshot.WaterGlasses)
	assert.Equal(t, 2, f.svc.Health().Glasses)
	assert.Equal(t, 2, r.Streak)
	assert.True(t, f.svc.SyncPending())
}

func TestDashboardKeepsEditsAfterFailedPush(t *testing.T) {
	f := newFixture(t, true)
	f.remote.setFail(errors.New("down"))
	f.svc.AddWater()
	f.svc.AddWater()
	f.svc.AddWater()
	f.svc.Store().UpdateTimer(func(tm *domain.Timer) {
		tm.FocusMinutesToday = 25
		tm.FocusDate = today
		tm.Unsynced = true
	})
	require.True(t, f.svc.sched.Flush())
	require.False(t, f.svc.SyncPending())
	assert.Empty(t, f.remote.pushes)

	f.remote.setFail(nil)
	f.remote.summary = domain.Summary{WaterIntakeToday: 0, FocusMinutesToday: 0}
	r, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Snapshot.WaterGlasses)
	assert.Equal(t, 25, r.Snapshot.FocusMinutes)
	assert.True(t, f.svc.Health().Unsynced)

	_, err = f.svc.SyncNow(context.Background())
	require.NoError(t, err)
	require.Len(t, f.remote.pushes, 1)
	assert.Equal(t, 3, f.remote.pushes[0].WaterGlasses)
	assert.Equal(t, 25, f.remote.pushes[0].FocusMinutes)
	assert.False(t, f.svc.Health().Unsynced)
	assert.False(t, f.svc.Timer().Unsynced)

	// Once the server has the figures it is authoritative again.
	f.remote.summary = domain.Summary{WaterIntakeToday: 5, FocusMinutesToday: 25}
	_, err = f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, f.svc.Health().Glasses)
}

func TestPushKeepsMarkerForNewerEdit(t *testing.T) {
	f := newFixture(t, true)
	f.svc.AddWater()
	f.svc.settlePush(domain.Push{WaterGlasses: 0})
	assert.True(t, f.svc.Health().Unsynced)

	f.svc.settlePush(domain.Push{WaterGlasses: 1})
	assert.False(t, f.svc.Health().Unsynced)
}

func TestDashboardKeepsTodaysUnpushedAward(t *testing.T) {
	f := newFixture(t, true)
	st := f.svc.Store()
	st.SaveMotivation(domain.Motivation{Streak: 3, Best: 3, StreakAwardedDate: today})
	st.UpdateHealth(func(h *domain.Health) {
		h.Glasses = 5
		h.Unsynced = true
	})
	f.remote.summary = domain.Summary{WaterIntakeToday: 2, CurrentStreak: 2, BestStreak: 2}

	r, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Streak)
	assert.Equal(t, 3, r.Best)
	assert.Equal(t, 5, r.Snapshot.WaterGlasses)
}

func TestDashboardEvaluatesAdoptedFigures(t *testing.T) {
	f := newFixture(t, true)
	st := f.svc.Store()
	st.SaveMotivation(domain.Motivation{Streak: 2, Best: 2, StreakAwardedDate: "2024-03-04"})
	st.UpdateTasks(func(ts *domain.Tasks) {
		for _, id := range []string{"a", "b", "c", "d"} {
			ts.Put(domain.Task{ID: id, Title: id, Date: today, Status: domain.StatusCompleted, Unsynced: true})
			f.remote.tasks[id] = domain.Task{ID: id, Title: id, Date: today, Status: domain.StatusActive}
		}
	})
	// The server has not seen the completions yet, only the water and focus.
	f.remote.summary = domain.Summary{WaterIntakeToday: 5, FocusMinutesToday: 60, CurrentStreak: 2, BestStreak: 2}

	_, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	m := st.LoadMotivation()
	assert.Equal(t, 3, m.Streak)
	assert.Equal(t, today, m.StreakAwardedDate)
}

func TestDashboardTrustsStreakThatCountsToday(t *testing.T) {
	f := newFixture(t, true)
	st := f.svc.Store()
	st.SaveMotivation(domain.Motivation{Streak: 2, Best: 2, StreakAwardedDate: "2024-03-04"})
	f.remote.summary = domain.Summary{
		TasksCompletedToday: 4, WaterIntakeToday: 5, FocusMinutesToday: 60,
		CurrentStreak: 3, BestStreak: 3,
	}

	_, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	m := st.LoadMotivation()
	assert.Equal(t, 3, m.Streak, "today is already in the server's streak")
	assert.Equal(t, today, m.StreakAwardedDate)
}

func TestDashboardOfflineFallsBack(t *testing.T) {
	f := newFixture(t, true)
	f.svc.AddWater()
	f.remote.setFail(errors.New("down"))

	r, err := f.svc.Dashboard(context.Background())
	require.Error(t, err)
	assert.False(t, r.FromServer)
	assert.Equal(t, 1, r.Snapshot.WaterGlasses)
	assert.Len(t, r.Week, 7)
}

func TestAnalytics(t *testing.T) {
	f := newFixture(t, true)
	f.remote.stats = []domain.Snapshot{
		{Date: "2024-03-04", TasksCompleted: 4, TasksTotal: 4, FocusMinutes: 90, WaterGlasses: 6, GoalsMet: true},
		{Date: "2024-03-05", TasksCompleted: 1, TasksTotal: 2, FocusMinutes: 30, WaterGlasses: 3},
	}
	f.remote.streak = 2

	r, err := f.svc.Analytics(context.Background(), remote.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 120, r.TotalFocus)
	assert.Equal(t, 2.0, r.FocusHours)
	assert.Equal(t, 75, r.CompletionRate)
	assert.Equal(t, 4.5, r.WaterAverage)
	assert.Equal(t, 1, r.GoalsMet)
	assert.Equal(t, 2, r.Streak)
	assert.Len(t, r.Bars, 30)
}

func TestAnalyticsDays(t *testing.T) {
	f := newFixture(t, true)
	f.remote.stats = []domain.Snapshot{
		{Date: "2024-03-04", TasksCompleted: 4, TasksTotal: 4, FocusMinutes: 90},
		{Date: "2024-03-05", TasksCompleted: 1, TasksTotal: 2, FocusMinutes: 30},
	}

	r, err := f.svc.AnalyticsDays(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "custom", r.Period)
	assert.Equal(t, 30, r.TotalFocus)
	assert.Len(t, r.Bars, 1)

	r, err = f.svc.AnalyticsDays(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "weekly", r.Period)
	assert.Equal(t, 120, r.TotalFocus)

	_, err = f.svc.AnalyticsDays(context.Background(), 31)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginCarriesGuestTasks(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.AddTask(context.Background(), domain.TaskInput{Title: "guest work"})
	require.NoError(t, err)
	f.svc.AddWater()

	sess, err := f.svc.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", f.svc.Store().Namespace())
	assert.True(t, f.svc.Online())
	assert.Equal(t, "Ada", sess.Name)

	ts := f.svc.Tasks()
	require.Len(t, ts.Active, 1)
	assert.Equal(t, "srv-1", ts.Active[0].ID)
	assert.False(t, ts.Active[0].Unsynced)
	assert.Equal(t, 1, f.svc.Health().Glasses)

	f.svc.Logout()
	assert.Equal(t, store.Guest, f.svc.Store().Namespace())
	assert.Empty(t, f.svc.Tasks().Active)
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, f.svc.Signup(context.Background(), "", "a@b", "pw"), ErrValidation)
	assert.Empty(t, f.remote.Calls())
}

func TestSessionExpiredSwitchesToGuest(t *testing.T) {
	f := newFixture(t, true)
	f.svc.AddWater()
	assert.Equal(t, "ada", f.svc.Store().Namespace())

	f.svc.keeper.Clear()
	f.svc.SessionExpired()
	assert.Equal(t, store.Guest, f.svc.Store().Namespace())
	assert.False(t, f.svc.SyncPending())
	assert.Zero(t, f.svc.Health().Glasses)
}
