package listresource

import (
	"sync"
	"time"
)

// Clock is the time source of the controller; tests swap in a manual one.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Debouncer runs the last scheduled function once no new one arrived for
// Delay. It is trailing-edge only.
type Debouncer struct {
	Delay time.Duration
	clock Clock

	mu    sync.Mutex
	timer Timer
}

func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = realClock{}
	}
	return &Debouncer{Delay: delay, clock: clock}
}

// Trigger (re)starts the window with f as the pending call.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.Delay, f)
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
