package indicator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phaseRecorder struct {
	mu     sync.Mutex
	phases []string
}

func (r *phaseRecorder) record(phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, phase)
}

func (r *phaseRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.phases))
	copy(out, r.phases)
	return out
}

func TestNewDefaults(t *testing.T) {
	ticker := New(0)

	assert.Equal(t, DefaultInterval, ticker.Interval())
	assert.Equal(t, []string{".", "..", "..."}, ticker.Frames())
	assert.Equal(t, ".", ticker.Reset())
	assert.False(t, ticker.Running())
}

func TestDefaultFramesIsACopy(t *testing.T) {
	frames := DefaultFrames()
	frames[0] = "x"
	assert.Equal(t, ".", DefaultFrames()[0])
}

func TestTickerCyclesFrames(t *testing.T) {
	ticker := New(5*time.Millisecond, "a", "b", "c")
	rec := &phaseRecorder{}

	require.True(t, ticker.Start(rec.record))
	defer ticker.Stop()

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 4
	}, time.Second, time.Millisecond)

	phases := rec.snapshot()[:4]
	assert.Equal(t, []string{"b", "c", "a", "b"}, phases)
}

func TestTickerStartTwiceKeepsOneTimer(t *testing.T) {
	ticker := New(5*time.Millisecond, "a", "b")
	first := &phaseRecorder{}
	second := &phaseRecorder{}

	require.True(t, ticker.Start(first.record))
	assert.False(t, ticker.Start(second.record))
	defer ticker.Stop()

	require.Eventually(t, func() bool {
		return len(first.snapshot()) >= 2
	}, time.Second, time.Millisecond)
	assert.Empty(t, second.snapshot())
}

func TestTickerStopIsIdempotent(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	rec := &phaseRecorder{}

	ticker.Stop()
	require.True(t, ticker.Start(rec.record))
	assert.True(t, ticker.Running())

	ticker.Stop()
	ticker.Stop()
	assert.False(t, ticker.Running())

	// At most one tick can be in flight when Stop returns.
	time.Sleep(20 * time.Millisecond)
	settled := len(rec.snapshot())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, len(rec.snapshot()))
}

func TestTickerRestartAfterStop(t *testing.T) {
	ticker := New(5*time.Millisecond, "a", "b")
	rec := &phaseRecorder{}

	require.True(t, ticker.Start(func(string) {}))
	ticker.Stop()
	require.True(t, ticker.Start(rec.record))
	defer ticker.Stop()

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "b", rec.snapshot()[0])
}
