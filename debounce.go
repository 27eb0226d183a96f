package main

import (
	"sync"
	"time"
)

// debouncer collapses a burst of events into a single delayed trigger. At
// most one countdown is live at any instant: Arm atomically replaces a
// countdown already in flight, so arms spaced closer than the delay yield
// exactly one fire, at last-arm + delay.
type debouncer struct {
	// C delivers one value per settled burst. Buffered with one slot;
	// a fire nobody has drained yet coalesces with the next.
	C <-chan struct{}

	delay time.Duration
	fires chan struct{}

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	fires := make(chan struct{}, 1)
	return &debouncer{C: fires, fires: fires, delay: delay}
}

// Arm (re)starts the countdown. Safe to call concurrently and while a
// previous countdown is pending; the replaced countdown never fires. A
// zero delay fires immediately.
func (d *debouncer) Arm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.delay <= 0 {
		d.deliver()
		return
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// a stale generation means Arm ran again after this countdown started
	if d.stopped || gen != d.gen {
		return
	}
	d.deliver()
}

// deliver queues one fire without blocking. Callers hold d.mu.
func (d *debouncer) deliver() {
	select {
	case d.fires <- struct{}{}:
	default:
	}
}

// Stop cancels any pending countdown. Nothing fires after Stop returns,
// and further Arm calls are no-ops.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
