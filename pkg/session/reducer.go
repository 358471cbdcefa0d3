package session

import (
	"github.com/killallgit/cinechat/pkg/codec"
)

// Parameters are the selections sent alongside a message.
type Parameters struct {
	Genres     []string
	SeenWorks  []string
	Characters []string
}

// Snapshot is an immutable view of everything a renderer needs. Version grows
// by one with every published change, so consumers can discard snapshots that
// arrive late.
type Snapshot struct {
	Version       uint64
	SessionID     string
	State         State
	Conversation  Conversation
	Whiteboard    Whiteboard
	ThinkingAgent string
	Phase         string
	Err           error
}

// Thinking returns the speaker currently shown as typing.
func (s Snapshot) Thinking() (string, bool) {
	return s.ThinkingAgent, s.ThinkingAgent != ""
}

// Apply folds one decoded event into s. Events only take effect while
// Streaming; in any other state s is returned unchanged. Version is left to
// the caller.
func Apply(s Snapshot, ev codec.Event) Snapshot {
	if s.State != Streaming {
		return s
	}

	switch e := ev.(type) {
	case codec.Message:
		s.Conversation = s.Conversation.Append(Entry{Speaker: e.Speaker, Text: e.Text})
		s.ThinkingAgent = e.Speaker
	case codec.Summary:
		s.Whiteboard = s.Whiteboard.Fold(e.Speaker, e.Text)
	case codec.End:
		s.State = Ended
		s.ThinkingAgent = ""
		s.Phase = ""
	}
	return s
}

// Fail moves a streaming session to Errored with err.
func Fail(s Snapshot, err error) Snapshot {
	if s.State != Streaming {
		return s
	}
	s.State = Errored
	s.Err = err
	s.ThinkingAgent = ""
	s.Phase = ""
	return s
}
