// Package events is the in-process publish/subscribe channel that tells views
// a domain changed. Events carry no payload: subscribers re-read the store.
package events

import "sync"

// Event names a domain change.
type Event int

const (
	TasksChanged Event = iota
	TimerChanged
	HealthChanged
	MotivationChanged
)

// All lists every event.
var All = []Event{TasksChanged, TimerChanged, HealthChanged, MotivationChanged}

func (e Event) String() string {
	switch e {
	case TasksChanged:
		return "tasksUpdated"
	case TimerChanged:
		return "timerUpdated"
	case HealthChanged:
		return "healthUpdated"
	case MotivationChanged:
		return "motivationUpdated"
	}
	return "unknown"
}

// Handler reacts to an event.
type Handler func(Event)

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(Event)
}

type subscription struct {
	id int
	h  Handler
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers must not publish the event they handle.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Event][]subscription
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Event][]subscription)}
}

// Subscribe registers h for e and returns a func that removes it. The
// returned func is safe to call more than once.
func (b *Bus) Subscribe(e Event, h Handler) func() {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[e] = append(b.subs[e], subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(e, id) })
	}
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) func() {
	cancels := make([]func(), 0, len(All))
	for _, e := range All {
		cancels = append(cancels, b.Subscribe(e, h))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

func (b *Bus) remove(e Event, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[e]
	for i, s := range subs {
		if s.id == id {
			b.subs[e] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler subscribed to e at the time of the call
// exactly once. A nil bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[e]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.h(e)
	}
}
