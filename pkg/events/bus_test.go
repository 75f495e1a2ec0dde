package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := New()
	var got []string
	b.Subscribe(TasksChanged, func(Event) { got = append(got, "first") })
	b.Subscribe(TasksChanged, func(Event) { got = append(got, "second") })
	b.Subscribe(HealthChanged, func(Event) { got = append(got, "health") })

	b.Publish(TasksChanged)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	cancel := b.Subscribe(TimerChanged, func(Event) { calls++ })
	b.Publish(TimerChanged)
	cancel()
	cancel()
	b.Publish(TimerChanged)
	assert.Equal(t, 1, calls)
}

func TestSubscribeDuringPublishWaitsForNextEvent(t *testing.T) {
	b := New()
	late := 0
	b.Subscribe(MotivationChanged, func(Event) {
		b.Subscribe(MotivationChanged, func(Event) { late++ })
	})
	b.Publish(MotivationChanged)
	assert.Equal(t, 0, late)
	b.Publish(MotivationChanged)
	assert.Equal(t, 1, late)
}

func TestSubscribeAll(t *testing.T) {
	b := New()
	var seen []Event
	cancel := b.SubscribeAll(func(e Event) { seen = append(seen, e) })
	for _, e := range All {
		b.Publish(e)
	}
	cancel()
	b.Publish(TasksChanged)
	assert.Equal(t, All, seen)
	assert.Equal(t, "healthUpdated", HealthChanged.String())
}

func TestNilBusDrops(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Publish(TasksChanged) })
}
