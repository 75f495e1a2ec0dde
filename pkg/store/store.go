// Package store is the per-user local cache of the four domains. Every load
// returns a fully defaulted value and every save broadcasts a change event.
// Storage failures are logged and swallowed: the in-memory value is still
// returned so the caller keeps working for the rest of the session.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/events"
	"tableflip.dev/focusflow/pkg/logging"
)

// Domain names one persisted record.
type Domain string

const (
	Tasks      Domain = "tasks"
	Timer      Domain = "timer"
	Health     Domain = "health"
	Motivation Domain = "motivation"
)

// Domains lists every domain.
var Domains = []Domain{Tasks, Timer, Health, Motivation}

// Event is the change notification published after d is saved.
func (d Domain) Event() events.Event {
	switch d {
	case Tasks:
		return events.TasksChanged
	case Timer:
		return events.TimerChanged
	case Health:
		return events.HealthChanged
	default:
		return events.MotivationChanged
	}
}

// Guest is the partition used when nobody is signed in.
const Guest = "guest"

// Store reads and writes one user's domains.
type Store struct {
	backend   Backend
	namespace string
	bus       events.Publisher
	clock     day.Clock
	log       *slog.Logger

	mu sync.Mutex
}

// New returns a store for namespace (usually a user id; empty means Guest).
// bus may be nil.
func New(b Backend, namespace string, bus events.Publisher, clock day.Clock) *Store {
	if strings.TrimSpace(namespace) == "" {
		namespace = Guest
	}
	if clock == nil {
		clock = day.System
	}
	return &Store{
		backend:   b,
		namespace: namespace,
		bus:       bus,
		clock:     clock,
		log:       logging.Store().With("namespace", namespace),
	}
}

// Namespace is the partition this store reads and writes.
func (s *Store) Namespace() string {
	return s.namespace
}

// Clock is the day boundary the store resets against.
func (s *Store) Clock() day.Clock {
	return s.clock
}

// Key is the backend key for d in this namespace.
func (s *Store) Key(d Domain) string {
	return Key(s.namespace, d)
}

// Key is the backend key of domain d for namespace.
func Key(namespace string, d Domain) string {
	return EncodeNamespace(namespace) + "-" + string(d)
}

// EncodeNamespace makes a user id safe for use as a directory name.
func EncodeNamespace(namespace string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(namespace))
}

// DecodeNamespace reverses EncodeNamespace.
func DecodeNamespace(encoded string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseKey splits a backend key into namespace and domain.
func ParseKey(key string) (string, Domain, bool) {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return "", "", false
	}
	ns, err := DecodeNamespace(key[:i])
	if err != nil {
		return "", "", false
	}
	d := Domain(key[i+1:])
	for _, known := range Domains {
		if d == known {
			return ns, d, true
		}
	}
	return "", "", false
}

// read decodes the stored record for d over def. Unknown or missing fields
// keep their default.
func read[T any](s *Store, d Domain, def T) T {
	raw, err := s.backend.Read(s.Key(d))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("read failed, using defaults", "domain", d, "err", err)
		}
		return def
	}
	val := def
	if err := json.Unmarshal(raw, &val); err != nil {
		s.log.Warn("decode failed, using defaults", "domain", d, "err", err)
		return def
	}
	return val
}

func (s *Store) write(d Domain, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode failed, keeping in-memory value", "domain", d, "err", err)
		return
	}
	if err := s.backend.Write(s.Key(d), raw); err != nil {
		s.log.Warn("write failed, keeping in-memory value", "domain", d, "err", err)
	}
}

func (s *Store) publish(d Domain) {
	if s.bus != nil {
		s.bus.Publish(d.Event())
	}
}

// LoadTasks returns the task domain.
func (s *Store) LoadTasks() domain.Tasks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTasks()
}

func (s *Store) loadTasks() domain.Tasks {
	t := read(s, Tasks, domain.Tasks{})
	if t.Active == nil {
		t.Active = []domain.Task{}
	}
	if t.Completed == nil {
		t.Completed = []domain.Task{}
	}
	return t
}

// SaveTasks persists t and publishes TasksChanged.
func (s *Store) SaveTasks(t domain.Tasks) domain.Tasks {
	return s.UpdateTasks(func(cur *domain.Tasks) { *cur = t })
}

// UpdateTasks applies fn to the current value and saves the result.
func (s *Store) UpdateTasks(fn func(*domain.Tasks)) domain.Tasks {
	s.mu.Lock()
	t := s.loadTasks()
	fn(&t)
	s.write(Tasks, t)
	s.mu.Unlock()
	s.publish(Tasks)
	return t
}

// LoadTimer returns the timer, with today's focus minutes zeroed if they
// were accumulated on another day.
func (s *Store) LoadTimer() domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTimer()
}

func (s *Store) loadTimer() domain.Timer {
	t := read(s, Timer, domain.DefaultTimer())
	today := s.clock.Today()
	if t.FocusDate != today {
		t.FocusMinutesToday = 0
		t.FocusDate = today
		t.Unsynced = false
	}
	return t
}

// SaveTimer persists t and publishes TimerChanged.
func (s *Store) SaveTimer(t domain.Timer) domain.Timer {
	return s.UpdateTimer(func(cur *domain.Timer) { *cur = t })
}

// UpdateTimer applies fn to the current value and saves the result.
func (s *Store) UpdateTimer(fn func(*domain.Timer)) domain.Timer {
	s.mu.Lock()
	t := s.loadTimer()
	fn(&t)
	s.write(Timer, t)
	s.mu.Unlock()
	s.publish(Timer)
	return t
}

// LoadHealth returns today's health. A record from another day is discarded.
func (s *Store) LoadHealth() domain.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHealth()
}

func (s *Store) loadHealth() domain.Health {
	today := s.clock.Today()
	h := read(s, Health, domain.Health{Date: today})
	if h.Date != today {
		return domain.Health{Date: today}
	}
	return h
}

// SaveHealth persists h stamped with today's date and publishes HealthChanged.
func (s *Store) SaveHealth(h domain.Health) domain.Health {
	return s.UpdateHealth(func(cur *domain.Health) { *cur = h })
}

// UpdateHealth applies fn to today's value and saves the result.
func (s *Store) UpdateHealth(fn func(*domain.Health)) domain.Health {
	s.mu.Lock()
	h := s.loadHealth()
	fn(&h)
	h.Date = s.clock.Today()
	s.write(Health, h)
	s.mu.Unlock()
	s.publish(Health)
	return h
}

// LoadMotivation returns the motivation domain.
func (s *Store) LoadMotivation() domain.Motivation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMotivation()
}

func (s *Store) loadMotivation() domain.Motivation {
	m := read(s, Motivation, domain.Motivation{Liked: []int{}, Starred: []int{}})
	m.Normalize()
	return m
}

// SaveMotivation persists m and publishes MotivationChanged. Best is raised
// to Streak if needed so Streak <= Best always holds on disk.
func (s *Store) SaveMotivation(m domain.Motivation) domain.Motivation {
	return s.UpdateMotivation(func(cur *domain.Motivation) { *cur = m })
}

// UpdateMotivation applies fn to the current value and saves the result.
func (s *Store) UpdateMotivation(fn func(*domain.Motivation)) domain.Motivation {
	s.mu.Lock()
	m := s.loadMotivation()
	fn(&m)
	m.Normalize()
	s.write(Motivation, m)
	s.mu.Unlock()
	s.publish(Motivation)
	return m
}

// ChangeMotivation is UpdateMotivation for callers that may decide under
// the lock that nothing changes: when fn returns false nothing is written
// or published.
func (s *Store) ChangeMotivation(fn func(*domain.Motivation) bool) (domain.Motivation, bool) {
	s.mu.Lock()
	m := s.loadMotivation()
	if !fn(&m) {
		s.mu.Unlock()
		return m, false
	}
	m.Normalize()
	s.write(Motivation, m)
	s.mu.Unlock()
	s.publish(Motivation)
	return m, true
}

// Purge erases every domain of this namespace.
func (s *Store) Purge() {
	s.mu.Lock()
	for _, d := range Domains {
		if err := s.backend.Erase(s.Key(d)); err != nil {
			s.log.Warn("erase failed", "domain", d, "err", err)
		}
	}
	s.mu.Unlock()
	for _, d := range Domains {
		s.publish(d)
	}
}

// Namespaces lists the partitions that hold data in b.
func Namespaces(ctx context.Context, b Backend) []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range b.Keys(ctx) {
		ns, _, ok := ParseKey(key)
		if !ok || seen[ns] {
			continue
		}
		seen[ns] = true
		out = append(out, ns)
	}
	return out
}
