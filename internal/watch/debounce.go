package watch

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period after the last change before a rebuild.
const DefaultDelay = 300 * time.Millisecond

// Debouncer collapses bursts of Trigger calls into a single signal on C.
// At most one signal is buffered.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	ch    chan struct{}
}

// NewDebouncer returns a Debouncer. A non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, ch: make(chan struct{}, 1)}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	select {
	case d.ch <- struct{}{}:
	default:
	}
}

// C delivers one value per settled burst.
func (d *Debouncer) C() <-chan struct{} { return d.ch }

// Stop cancels a pending signal.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
