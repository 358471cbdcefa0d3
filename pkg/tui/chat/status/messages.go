package status

import (
	"time"

	"github.com/killallgit/cinechat/pkg/session"
)

// SessionMsg carries the parts of a session snapshot the status line shows
type SessionMsg struct {
	State         session.State
	ThinkingAgent string
	Phase         string
	Err           error
}

// FromSnapshot builds a SessionMsg from a controller snapshot
func FromSnapshot(s session.Snapshot) SessionMsg {
	return SessionMsg{
		State:         s.State,
		ThinkingAgent: s.ThinkingAgent,
		Phase:         s.Phase,
		Err:           s.Err,
	}
}

// TickMsg updates the timer
type TickMsg time.Time
