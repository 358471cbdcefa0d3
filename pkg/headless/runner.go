package headless

import (
	"sync"

	"github.com/killallgit/cinechat/pkg/session"
)

// runner follows one session's snapshots and prints new log entries as they
// arrive. Snapshots may be delivered out of order, so anything not newer
// than the last one handled is ignored.
type runner struct {
	output *Output

	mu          sync.Mutex
	lastVersion uint64
	printed     int
	baseVersion uint64

	once sync.Once
	done chan session.Snapshot
}

func newRunner(output *Output, base session.Snapshot) *runner {
	return &runner{
		output:      output,
		lastVersion: base.Version,
		baseVersion: base.Version,
		printed:     base.Conversation.Len(),
		done:        make(chan session.Snapshot, 1),
	}
}

// observe is the controller subscription.
func (r *runner) observe(snap session.Snapshot) {
	r.print(snap)

	if snap.Version > r.baseVersion && snap.State != session.Streaming {
		r.once.Do(func() { r.done <- snap })
	}
}

// print writes entries not yet shown, provided snap is newer than anything
// already handled.
func (r *runner) print(snap session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.Version <= r.lastVersion {
		return
	}
	r.lastVersion = snap.Version

	for ; r.printed < snap.Conversation.Len(); r.printed++ {
		r.output.Entry(snap.Conversation.At(r.printed))
	}
}
