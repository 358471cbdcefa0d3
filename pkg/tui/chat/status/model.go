package status

import (
	"time"

	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/tui/theme"
)

// StatusModel is the line under the conversation: who is typing while a
// session streams, how it ended otherwise.
type StatusModel struct {
	state     session.State
	agent     string
	phase     string
	err       error
	timer     time.Duration
	startTime time.Time
	width     int
	styles    *theme.Styles
}

// NewStatusModel creates a new status line model
func NewStatusModel() StatusModel {
	return StatusModel{
		state:  session.Idle,
		styles: theme.DefaultStyles(),
	}
}

// State returns the last session state seen
func (m StatusModel) State() session.State {
	return m.state
}

// Elapsed returns how long the current session has been streaming
func (m StatusModel) Elapsed() time.Duration {
	return m.timer
}
