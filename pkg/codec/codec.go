// Package codec turns raw stream events into typed chat events.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/killallgit/cinechat/pkg/sse"
)

// Reserved event names on the stream.
const (
	EventMessage = "message"
	EventEnd     = "end"

	// EndOfStream is the data the server sends with the terminal event.
	EndOfStream = "END_OF_STREAM"
)

// Kind identifies the variant of a decoded Event.
type Kind int

const (
	KindMessage Kind = iota
	KindSummary
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindSummary:
		return "summary"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is one of Message, Summary or End.
type Event interface {
	Kind() Kind
}

// Message is a speaker's turn in the conversation.
type Message struct {
	Speaker string
	Text    string
}

// Summary is a speaker's summarized opinion, destined for the whiteboard.
type Summary struct {
	Speaker string
	Text    string
}

// End is the terminal signal.
type End struct {
	Data string
}

func (Message) Kind() Kind { return KindMessage }
func (Summary) Kind() Kind { return KindSummary }
func (End) Kind() Kind     { return KindEnd }

// DecodeError reports an event that could not be turned into an Event.
type DecodeError struct {
	Event string
	Data  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q event: %v", e.Event, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// payload is the JSON record carried on the default channel.
type payload struct {
	LastSpeaker string `json:"last_speaker"`
	Text        string `json:"text"`
	IsSummary   *bool  `json:"is_summary"`
}

// Decode classifies a raw event. It has no side effects.
func Decode(raw sse.Event) (Event, error) {
	name := raw.Name
	if name == "" {
		name = EventMessage
	}

	switch name {
	case EventEnd:
		return End{Data: raw.Data}, nil
	case EventMessage:
		return decodePayload(name, raw.Data)
	default:
		return nil, &DecodeError{Event: name, Data: raw.Data, Err: fmt.Errorf("unknown event name")}
	}
}

func decodePayload(name, data string) (Event, error) {
	if err := validatePayload([]byte(data)); err != nil {
		return nil, &DecodeError{Event: name, Data: data, Err: err}
	}

	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, &DecodeError{Event: name, Data: data, Err: err}
	}

	if p.IsSummary != nil && *p.IsSummary {
		return Summary{Speaker: p.LastSpeaker, Text: p.Text}, nil
	}
	return Message{Speaker: p.LastSpeaker, Text: p.Text}, nil
}

// EncodeMessage builds the raw event the server sends for a conversation turn.
func EncodeMessage(speaker, text string) sse.Event {
	return encode(speaker, text, false)
}

// EncodeSummary builds the raw event the server sends for a whiteboard summary.
func EncodeSummary(speaker, text string) sse.Event {
	return encode(speaker, text, true)
}

// EncodeEnd builds the terminal event.
func EncodeEnd() sse.Event {
	return sse.Event{Name: EventEnd, Data: EndOfStream}
}

func encode(speaker, text string, summary bool) sse.Event {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a flat struct of strings and a bool cannot fail.
	_ = enc.Encode(payload{LastSpeaker: speaker, Text: text, IsSummary: &summary})
	return sse.Event{Data: string(bytes.TrimRight(buf.Bytes(), "\n"))}
}
