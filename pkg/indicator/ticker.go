// Package indicator drives the cycling "agent is typing" glyph.
package indicator

import (
	"sync"
	"time"
)

// DefaultInterval is the period between phase changes.
const DefaultInterval = 500 * time.Millisecond

var defaultFrames = []string{".", "..", "..."}

// DefaultFrames returns a copy of the default phase sequence.
func DefaultFrames() []string {
	frames := make([]string, len(defaultFrames))
	copy(frames, defaultFrames)
	return frames
}

// Ticker emits phases from a fixed cyclic sequence while running. It owns at
// most one live timer at a time.
type Ticker struct {
	interval time.Duration
	frames   []string

	mu   sync.Mutex
	stop chan struct{}
}

// New creates a stopped ticker. A non-positive interval or an empty frame list
// falls back to the defaults.
func New(interval time.Duration, frames ...string) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if len(frames) == 0 {
		frames = DefaultFrames()
	}
	return &Ticker{interval: interval, frames: frames}
}

// Interval returns the phase period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Frames returns the phase sequence.
func (t *Ticker) Frames() []string {
	frames := make([]string, len(t.frames))
	copy(frames, t.frames)
	return frames
}

// Reset returns the phase shown before the first tick.
func (t *Ticker) Reset() string {
	return t.frames[0]
}

// Start begins calling onTick with the next phase once per interval. It
// returns false, and does nothing, when the ticker is already running.
func (t *Ticker) Start(onTick func(phase string)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return false
	}
	stop := make(chan struct{})
	t.stop = stop

	go t.loop(stop, onTick)
	return true
}

// Stop halts phase emission. It is idempotent and does not wait for an
// in-flight callback, so it is safe to call while holding locks that the
// callback also takes.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// Running reports whether a timer is live.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Ticker) loop(stop <-chan struct{}, onTick func(string)) {
	timer := time.NewTicker(t.interval)
	defer timer.Stop()

	index := 0
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			// Prefer a pending stop over a simultaneous tick.
			select {
			case <-stop:
				return
			default:
			}
			index = (index + 1) % len(t.frames)
			onTick(t.frames[index])
		}
	}
}
