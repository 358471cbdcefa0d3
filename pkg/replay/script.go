// Package replay serves scripted chat streams over server-sent events. It
// speaks the same wire contract as the real chat backend and is used for
// local development and tests.
package replay

import (
	"fmt"
	"os"
	"time"

	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/sse"
	"gopkg.in/yaml.v3"
)

// DefaultDelay is the pause between scripted events.
const DefaultDelay = 300 * time.Millisecond

// Script is an ordered list of events streamed for every request.
type Script struct {
	Delay  time.Duration `yaml:"delay"`
	Events []ScriptEvent `yaml:"events"`
	// End sends the terminal event after the last scripted event.
	End bool `yaml:"end"`
	// Abort drops the connection after the last scripted event instead.
	Abort bool `yaml:"abort"`
}

// ScriptEvent is one scripted event. Raw, when set, is sent verbatim as the
// data payload under the Event name.
type ScriptEvent struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
	Summary bool   `yaml:"summary"`
	Raw     string `yaml:"raw"`
	Event   string `yaml:"event"`
}

// SSE renders the scripted event in wire form.
func (e ScriptEvent) SSE() sse.Event {
	if e.Raw != "" {
		return sse.Event{Name: e.Event, Data: e.Raw}
	}
	var ev sse.Event
	if e.Summary {
		ev = codec.EncodeSummary(e.Speaker, e.Text)
	} else {
		ev = codec.EncodeMessage(e.Speaker, e.Text)
	}
	if e.Event != "" {
		ev.Name = e.Event
	}
	return ev
}

// LoadScript reads a YAML script. End defaults to true.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script. End defaults to true.
func ParseScript(data []byte) (*Script, error) {
	script := &Script{Delay: DefaultDelay, End: true}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if script.Delay < 0 {
		return nil, fmt.Errorf("invalid delay: %s", script.Delay)
	}
	for i, ev := range script.Events {
		if ev.Raw == "" && ev.Speaker == "" {
			return nil, fmt.Errorf("event %d: speaker is required", i)
		}
	}
	return script, nil
}

// DefaultScript is a short panel discussion among the default roster.
func DefaultScript() *Script {
	return &Script{
		Delay: DefaultDelay,
		End:   true,
		Events: []ScriptEvent{
			{Speaker: "Host", Text: "Welcome! Let's find you something to watch."},
			{Speaker: "Critic", Text: "Given what you've seen, I'd steer toward slower, character-driven science fiction."},
			{Speaker: "Critic", Text: "Prefers thoughtful SF over spectacle", Summary: true},
			{Speaker: "Fan", Text: "Counterpoint: you can't beat a good space adventure on a Friday night."},
			{Speaker: "Fan", Text: "Pushes for crowd-pleasing adventure", Summary: true},
			{Speaker: "Critic", Text: "Fair, as long as it has a real ending."},
			{Speaker: "Critic", Text: "Will accept adventure with a strong ending", Summary: true},
			{Speaker: "Host", Text: "Then my pick is one that satisfies both of you. Enjoy the movie!"},
		},
	}
}
