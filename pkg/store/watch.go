package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/focusflow/pkg/events"
	"tableflip.dev/focusflow/pkg/logging"
)

// Watch republishes writes made to namespace by other processes sharing the
// diskv tree at basePath. Our own writes echo back as duplicate events,
// which subscribers tolerate because they re-read the store anyway. Watch
// returns once the watcher is armed; it stops when ctx is done.
func Watch(ctx context.Context, basePath, namespace string, bus events.Publisher) error {
	if basePath == "" {
		return errors.New("store: base path unknown")
	}
	dir := filepath.Join(basePath, EncodeNamespace(namespace))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure namespace dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("store: watch %s: %w", dir, err)
	}

	log := logging.Store().With("namespace", namespace)
	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Warn("watcher close", "err", err)
			}
		}()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error, refreshing everything", "err", err)
				for _, d := range Domains {
					throttle.Enqueue(d.Event(), bus.Publish)
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				d, ok := domainForPath(evt.Name)
				if !ok {
					continue
				}
				throttle.Enqueue(d.Event(), bus.Publish)
			}
		}
	}()
	return nil
}

func domainForPath(path string) (Domain, bool) {
	name := Domain(filepath.Base(path))
	for _, d := range Domains {
		if d == name {
			return d, true
		}
	}
	return "", false
}

// eventThrottle coalesces bursts of filesystem writes into one event per
// domain per window.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[events.Event]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[events.Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev events.Event, send func(events.Event)) {
	t.mu.Lock()
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(events.Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[events.Event]struct{})
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range events.All {
		if _, ok := pending[ev]; ok {
			send(ev)
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
