package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/sse"
	"github.com/killallgit/cinechat/pkg/transport"
)

// FakeTransport implements transport.Transport for testing. Every Open
// records the request and hands out a FakeStream the test drives by hand.
type FakeTransport struct {
	mu       sync.Mutex
	requests []transport.Request
	streams  []*FakeStream
	openErr  error
	queued   [][]transport.Frame
	opened   chan *FakeStream
}

// NewFakeTransport creates a new fake transport
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{opened: make(chan *FakeStream, 64)}
}

// Open implements the transport.Transport interface
func (f *FakeTransport) Open(ctx context.Context, req transport.Request) (<-chan transport.Frame, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	if f.openErr != nil {
		err := f.openErr
		f.mu.Unlock()
		return nil, err
	}

	stream := newFakeStream(ctx)
	f.streams = append(f.streams, stream)
	var script []transport.Frame
	if len(f.queued) > 0 {
		script = f.queued[0]
		f.queued = f.queued[1:]
	}
	f.mu.Unlock()

	if script != nil {
		go stream.play(script)
	}
	select {
	case f.opened <- stream:
	default:
	}
	return stream.frames, nil
}

// SetOpenError makes subsequent Open calls fail with err (nil to clear).
func (f *FakeTransport) SetOpenError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr = err
}

// Enqueue scripts the next opened stream. The frames are delivered in order;
// a frame carrying an error also closes the stream. Otherwise the stream
// stays open until the test closes it or the session cancels it.
func (f *FakeTransport) Enqueue(frames ...transport.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, frames)
}

// Requests returns every request passed to Open.
func (f *FakeTransport) Requests() []transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]transport.Request, len(f.requests))
	copy(result, f.requests)
	return result
}

// OpenCount returns how many times Open was called.
func (f *FakeTransport) OpenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastStream returns the most recently opened stream, if any.
func (f *FakeTransport) LastStream() *FakeStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.streams) == 0 {
		return nil
	}
	return f.streams[len(f.streams)-1]
}

// WaitForStream waits for the next successful Open.
func (f *FakeTransport) WaitForStream(timeout time.Duration) (*FakeStream, error) {
	select {
	case stream := <-f.opened:
		return stream, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("no stream opened within %s", timeout)
	}
}

// MessageFrame builds a frame carrying a conversation message.
func MessageFrame(speaker, text string) transport.Frame {
	return transport.Frame{Event: codec.EncodeMessage(speaker, text)}
}

// SummaryFrame builds a frame carrying a whiteboard summary.
func SummaryFrame(speaker, text string) transport.Frame {
	return transport.Frame{Event: codec.EncodeSummary(speaker, text)}
}

// EndFrame builds the terminal frame.
func EndFrame() transport.Frame {
	return transport.Frame{Event: codec.EncodeEnd()}
}

// RawFrame builds a frame with an arbitrary event name and data.
func RawFrame(name, data string) transport.Frame {
	return transport.Frame{Event: sse.Event{Name: name, Data: data}}
}

// ErrorFrame builds a transport failure frame.
func ErrorFrame(err error) transport.Frame {
	return transport.Frame{Err: err}
}

// FakeStream is one open stream. Sends block until the reader takes the
// frame, so after a Send returns the frame has been received.
type FakeStream struct {
	ctx    context.Context
	frames chan transport.Frame

	mu     sync.Mutex
	closed bool
}

func newFakeStream(ctx context.Context) *FakeStream {
	return &FakeStream{ctx: ctx, frames: make(chan transport.Frame)}
}

// Send delivers a frame. It returns false when the stream is closed or the
// reader cancelled it.
func (s *FakeStream) Send(frame transport.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ctx.Err() != nil {
		return false
	}
	select {
	case s.frames <- frame:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// SendMessage sends a conversation message event.
func (s *FakeStream) SendMessage(speaker, text string) bool {
	return s.Send(MessageFrame(speaker, text))
}

// SendSummary sends a whiteboard summary event.
func (s *FakeStream) SendSummary(speaker, text string) bool {
	return s.Send(SummaryFrame(speaker, text))
}

// SendEnd sends the terminal event.
func (s *FakeStream) SendEnd() bool {
	return s.Send(EndFrame())
}

// SendRaw sends an event with arbitrary name and data.
func (s *FakeStream) SendRaw(name, data string) bool {
	return s.Send(RawFrame(name, data))
}

// Fail delivers a transport error and closes the stream.
func (s *FakeStream) Fail(err error) bool {
	ok := s.Send(ErrorFrame(err))
	s.CloseStream()
	return ok
}

// CloseStream closes the frame channel as a server hanging up would.
func (s *FakeStream) CloseStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.frames)
	}
}

// Cancelled reports whether the reader cancelled the stream.
func (s *FakeStream) Cancelled() bool {
	return s.ctx.Err() != nil
}

// Done is closed when the reader cancels the stream.
func (s *FakeStream) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *FakeStream) play(frames []transport.Frame) {
	for _, frame := range frames {
		if frame.Err != nil {
			s.Fail(frame.Err)
			return
		}
		if !s.Send(frame) {
			return
		}
	}
}
