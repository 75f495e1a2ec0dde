package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/events"
	"tableflip.dev/focusflow/pkg/goals"
	"tableflip.dev/focusflow/pkg/logging"
	"tableflip.dev/focusflow/pkg/metrics"
	"tableflip.dev/focusflow/pkg/remote"
	"tableflip.dev/focusflow/pkg/session"
	"tableflip.dev/focusflow/pkg/store"
	"tableflip.dev/focusflow/pkg/syncer"
)

// Remote is the part of the API client the service uses.
type Remote interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	Signup(ctx context.Context, name, email, password string) error
	Tasks(ctx context.Context, date string) ([]domain.Task, error)
	CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	ToggleTask(ctx context.Context, id string) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Summary(ctx context.Context) (domain.Summary, error)
	Stats(ctx context.Context, p remote.Period) ([]domain.Snapshot, error)
	Streak(ctx context.Context) (int, error)
	PushToday(ctx context.Context, p domain.Push) error
}

var (
	ErrValidation   = errors.New("app: invalid input")
	ErrNotFound     = errors.New("app: task not found")
	ErrUndoExpired  = errors.New("app: undo window closed")
	ErrSignedOut    = errors.New("app: not signed in")
	ErrTimerDone    = errors.New("app: session complete, reset or pick another mode")
	ErrTimerRunning = errors.New("app: pause the timer first")
)

// SyncError means a change was applied locally but the server did not
// take it. The change is kept and marked for a later Reconcile.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("app: %s saved locally but not synced: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Options wires a Service.
type Options struct {
	Backend  store.Backend
	Remote   Remote
	Session  *session.Keeper
	Bus      *events.Bus
	Clock    day.Clock
	Now      func() time.Time
	Goals    domain.Goals
	WaterMax int
	Policy   goals.Policy
	Debounce time.Duration
	Undo     time.Duration
}

// Service is the single entry point for views and commands. Every mutation
// is applied to the local store first and published on the bus; the remote
// side is reconciled afterwards.
type Service struct {
	backend store.Backend
	remote  Remote
	keeper  *session.Keeper
	bus     *events.Bus
	clock   day.Clock
	now     func() time.Time
	targets domain.Goals
	max     int
	policy  goals.Policy
	undo    time.Duration
	log     *slog.Logger

	mu        sync.RWMutex
	store     *store.Store
	evaluator *goals.Evaluator

	sched   *syncer.Scheduler
	tickGen atomic.Uint64

	deleteMu    sync.Mutex
	deleteTimer *time.Timer
}

// New builds a service for whoever is signed in according to opts.Session.
func New(opts Options) *Service {
	if opts.Backend == nil {
		opts.Backend = store.NewMemoryBackend()
	}
	if opts.Session == nil {
		opts.Session = session.NewKeeper(opts.Backend)
	}
	if opts.Bus == nil {
		opts.Bus = events.New()
	}
	if opts.Clock == nil {
		opts.Clock = day.System
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Goals == (domain.Goals{}) {
		opts.Goals = domain.DefaultGoals
	}
	if opts.WaterMax <= 0 {
		opts.WaterMax = domain.DefaultWaterMax
	}
	if opts.Undo <= 0 {
		opts.Undo = store.DefaultUndo
	}
	s := &Service{
		backend: opts.Backend,
		remote:  opts.Remote,
		keeper:  opts.Session,
		bus:     opts.Bus,
		clock:   opts.Clock,
		now:     opts.Now,
		targets: opts.Goals,
		max:     opts.WaterMax,
		policy:  opts.Policy,
		undo:    opts.Undo,
		log:     logging.App(),
	}
	s.sched = syncer.New(pushFunc(s.push), s.Snapshot, opts.Debounce)
	s.switchUser()
	return s
}

type pushFunc func(ctx context.Context, p domain.Push) error

func (f pushFunc) PushToday(ctx context.Context, p domain.Push) error {
	return f(ctx, p)
}

func (s *Service) push(ctx context.Context, p domain.Push) error {
	if !s.Online() {
		return ErrSignedOut
	}
	if err := s.remote.PushToday(ctx, p); err != nil {
		return err
	}
	s.settlePush(p)
	return nil
}

// settlePush clears the unsynced markers the push carried. A value that
// moved on while the push was in flight keeps its marker.
func (s *Service) settlePush(p domain.Push) {
	st := s.Store()
	today := s.clock.Today()
	if h := st.LoadHealth(); h.Unsynced && h.Glasses == p.WaterGlasses {
		st.UpdateHealth(func(h *domain.Health) {
			if h.Glasses == p.WaterGlasses {
				h.Unsynced = false
			}
		})
	}
	if t := st.LoadTimer(); t.Unsynced && t.FocusMinutesOn(today) == p.FocusMinutes {
		st.UpdateTimer(func(t *domain.Timer) {
			if t.FocusMinutesOn(today) == p.FocusMinutes {
				t.Unsynced = false
			}
		})
	}
}

// ahead reports whether local aggregates hold changes the server has not
// seen: a push is waiting, or an earlier one failed.
func (s *Service) ahead() bool {
	if s.sched.Pending() {
		return true
	}
	st := s.Store()
	return st.LoadHealth().Unsynced || st.LoadTimer().Unsynced || len(st.LoadTasks().Unsynced()) > 0
}

// switchUser points the store at the current session's partition.
func (s *Service) switchUser() {
	ns := s.keeper.Get().Namespace()
	st := store.New(s.backend, ns, s.bus, s.clock)
	s.mu.Lock()
	s.store = st
	s.evaluator = goals.New(st, s.targets, s.policy)
	s.mu.Unlock()
	s.log.Debug("using partition", "namespace", ns)
}

// Store is the active user's store.
func (s *Service) Store() *store.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Service) eval() *goals.Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator
}

// Bus is the change notification channel views subscribe to.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// Session is the signed-in user, zero for a guest.
func (s *Service) Session() session.Session {
	return s.keeper.Get()
}

// Online reports whether remote calls can be made.
func (s *Service) Online() bool {
	return s.remote != nil && s.keeper.Get().Valid()
}

// Goals are the daily thresholds in use.
func (s *Service) Goals() domain.Goals {
	return s.targets
}

// Today is the current calendar date.
func (s *Service) Today() string {
	return s.clock.Today()
}

// Snapshot is today's aggregate computed from the local store.
func (s *Service) Snapshot() domain.Snapshot {
	st := s.Store()
	today := s.clock.Today()
	return metrics.Today(today, st.LoadTasks(), st.LoadTimer(), st.LoadHealth(), s.targets)
}

// Evaluate runs the daily goal check.
func (s *Service) Evaluate() goals.Result {
	return s.eval().Evaluate()
}

// changed runs after every mutation to tasks, health or the timer.
func (s *Service) changed(schedule bool) {
	s.eval().Evaluate()
	if schedule && s.Online() {
		s.sched.ScheduleSync()
	}
}

// SyncNow pushes today's snapshot immediately.
func (s *Service) SyncNow(ctx context.Context) (domain.Snapshot, error) {
	if !s.Online() {
		return s.Snapshot(), ErrSignedOut
	}
	return s.sched.Push(ctx)
}

// SyncPending reports whether a debounced push is waiting.
func (s *Service) SyncPending() bool {
	return s.sched.Pending()
}

// Close flushes the pending push and stops background timers.
func (s *Service) Close() {
	s.sched.Close()
	s.deleteMu.Lock()
	if s.deleteTimer != nil {
		s.deleteTimer.Stop()
		s.deleteTimer = nil
	}
	s.deleteMu.Unlock()
}
