package keys

import (
	"sync"
	"time"
)

// Timer is a single cancellable scheduled callback.
// Scheduling replaces whatever was pending.
type Timer interface {
	Schedule(d time.Duration, fire func())
	Cancel()
}

// DispatchTimer is a Timer backed by time.AfterFunc. The firing is handed to
// dispatch so it runs on the host's event loop rather than the timer goroutine.
// A firing that was already queued when Cancel or Schedule ran is dropped.
type DispatchTimer struct {
	dispatch func(func())

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDispatchTimer returns a timer posting firings through dispatch.
// A nil dispatch runs the firing on the timer goroutine.
func NewDispatchTimer(dispatch func(func())) *DispatchTimer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &DispatchTimer{dispatch: dispatch}
}

func (d *DispatchTimer) Schedule(dur time.Duration, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(dur, func() {
		d.dispatch(func() {
			if d.live(gen) {
				fire()
			}
		})
	})
}

func (d *DispatchTimer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *DispatchTimer) live(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
