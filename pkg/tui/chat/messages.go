package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/cinechat/pkg/session"
)

// SnapshotMsg delivers a controller snapshot to the chat model
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

// Updates carries snapshots from the controller into the program. Only the
// newest pending snapshot is kept, and Push never blocks, so it can be
// called from the controller while the program is inside Update.
type Updates struct {
	ch chan session.Snapshot
}

// NewUpdates creates an empty update channel
func NewUpdates() *Updates {
	return &Updates{ch: make(chan session.Snapshot, 1)}
}

// Push queues s, replacing an older pending snapshot.
func (u *Updates) Push(s session.Snapshot) {
	for {
		select {
		case u.ch <- s:
			return
		default:
		}
		select {
		case old := <-u.ch:
			if old.Version > s.Version {
				s = old
			}
		default:
		}
	}
}

// waitForSnapshot blocks until a snapshot is pushed or ctx is done
func waitForSnapshot(ctx context.Context, u *Updates) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-u.ch:
			return SnapshotMsg{Snapshot: s}
		case <-ctx.Done():
			return nil
		}
	}
}
