package syncer

import (
	"sync"
	"time"
)

// Handle is one armed debounce window.
type Handle struct {
	d   *Debouncer
	gen uint64
}

// Cancel disarms the window if it is still the pending one. It reports
// whether a callback was prevented.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if h.d.gen != h.gen || h.d.timer == nil {
		return false
	}
	h.d.disarm()
	return true
}

// Debouncer runs fn once, delay after the last Schedule call. A callback
// whose generation has been superseded never runs, even if its timer had
// already fired.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewDebouncer returns a trailing-edge debouncer for fn.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule cancels any pending window and arms a new one.
func (d *Debouncer) Schedule() *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarm()
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return &Handle{d: d, gen: gen}
}

// Pending reports whether a window is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs the pending callback now, on the caller's goroutine. It
// reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.disarm()
	d.mu.Unlock()
	d.fn()
	return true
}

// Stop drops the pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.disarm()
	d.mu.Unlock()
}

// disarm must be called with mu held.
func (d *Debouncer) disarm() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
}
