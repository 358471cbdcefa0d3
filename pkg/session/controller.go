// Package session implements the streaming-session controller: it opens the
// chat stream, folds each inbound event into the conversation log and the
// whiteboard, and drives the typing indicator while a session is live.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/indicator"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/sse"
	"github.com/killallgit/cinechat/pkg/transport"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrEmptyMessage is returned by Start for a blank message.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSessionActive is returned by Start while a session is streaming.
	ErrSessionActive = errors.New("a session is already streaming")
	// ErrStreamClosed is recorded when the stream closes without the
	// terminal signal.
	ErrStreamClosed = errors.New("stream closed before end of stream")
)

// Controller owns one conversation: its accumulated log and whiteboard, and
// at most one live session at a time. All methods are safe for concurrent
// use and none of them block on the network.
type Controller struct {
	transport transport.Transport
	ticker    *indicator.Ticker
	sentinel  string
	speakers  []string
	echo      bool
	echoAs    string
	tracer    trace.TracerProvider
	hook      func(sse.Event)

	mu          sync.Mutex
	snap        Snapshot
	generation  uint64
	cancel      context.CancelFunc
	span        *sessionSpan
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithTicker sets the typing indicator ticker. The ticker must belong to this
// controller alone: a ticker already running elsewhere is not restarted, and
// the session keeps its initial phase.
func WithTicker(t *indicator.Ticker) Option {
	return func(c *Controller) {
		if t != nil {
			c.ticker = t
		}
	}
}

// WithSentinel sets the whiteboard's pending marker.
func WithSentinel(sentinel string) Option {
	return func(c *Controller) {
		c.sentinel = sentinel
	}
}

// WithSpeakers pre-seeds the whiteboard with pending speakers.
func WithSpeakers(speakers ...string) Option {
	return func(c *Controller) {
		c.speakers = append([]string(nil), speakers...)
	}
}

// WithUserEcho appends the user's own message to the log, under speaker,
// when a session starts.
func WithUserEcho(speaker string) Option {
	return func(c *Controller) {
		c.echo = true
		c.echoAs = speaker
	}
}

// WithTracerProvider sets where session spans are recorded. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Controller) {
		c.tracer = tp
	}
}

// WithEventHook registers fn to see every raw event of the live session
// before it is decoded. fn runs on the session's reader goroutine.
func WithEventHook(fn func(sse.Event)) Option {
	return func(c *Controller) {
		c.hook = fn
	}
}

// New creates an Idle controller reading sessions from t.
func New(t transport.Transport, opts ...Option) *Controller {
	c := &Controller{
		transport:   t,
		subscribers: map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ticker == nil {
		c.ticker = indicator.New(indicator.DefaultInterval)
	}
	if c.sentinel == "" {
		c.sentinel = DefaultSentinel
	}
	if c.echo && c.echoAs == "" {
		c.echoAs = "user"
	}
	c.snap = Snapshot{
		State:      Idle,
		Whiteboard: NewWhiteboard(c.sentinel, c.speakers...),
	}
	return c
}

// Start opens a new session for message. It returns ErrEmptyMessage for a
// blank message and ErrSessionActive while another session is streaming; in
// both cases nothing changes. The stream is opened in the background, and
// a connection failure shows up as the Errored state.
//
// The log and whiteboard carry over from earlier sessions; use Reset to
// clear them.
func (c *Controller) Start(ctx context.Context, message string, params Parameters) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.snap.State == Streaming {
		c.mu.Unlock()
		return ErrSessionActive
	}

	c.generation++
	gen := c.generation
	id := uuid.NewString()

	spanCtx, span := startSessionSpan(ctx, c.tracer, id, params)
	sessCtx, cancel := context.WithCancel(spanCtx)
	c.cancel = cancel
	c.span = span

	next := c.snap
	next.SessionID = id
	next.State = Streaming
	next.ThinkingAgent = ""
	next.Err = nil
	next.Phase = c.ticker.Reset()
	next.Whiteboard = next.Whiteboard.Seed(params.Characters...)
	if c.echo {
		next.Conversation = next.Conversation.Append(Entry{Speaker: c.echoAs, Text: message})
	}
	snap, subs := c.commitLocked(next)

	ticking := c.ticker.Start(func(phase string) { c.tick(gen, phase) })
	c.mu.Unlock()

	log := logger.WithComponent("session")
	if !ticking {
		log.Warn("Typing indicator already running; phase will not advance", "session_id", id)
	}
	log.Info("Session started",
		"session_id", id,
		"genres", params.Genres,
		"seen_works", params.SeenWorks,
		"characters", params.Characters)

	notify(subs, snap)

	req := transport.Request{
		Message:    message,
		Genres:     params.Genres,
		SeenWorks:  params.SeenWorks,
		Characters: params.Characters,
	}
	go c.run(sessCtx, gen, id, req)
	return nil
}

// Stop closes any open stream, stops the indicator and moves to Idle. It is
// idempotent and may be called from any state.
func (c *Controller) Stop() {
	c.mu.Lock()
	snap, subs, changed := c.stopLocked()
	c.mu.Unlock()

	if changed {
		logger.WithComponent("session").Info("Session stopped", "session_id", snap.SessionID)
		notify(subs, snap)
	}
}

// Reset stops any session and clears the log and whiteboard for a new
// conversation. Seeded speakers are pending again.
func (c *Controller) Reset() {
	c.mu.Lock()
	next, _, _ := c.stopLocked()
	next.SessionID = ""
	next.Conversation = Conversation{}
	next.Whiteboard = NewWhiteboard(c.sentinel, c.speakers...)
	snap, subs := c.commitLocked(next)
	c.mu.Unlock()

	logger.WithComponent("session").Debug("Conversation reset")
	notify(subs, snap)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// SessionID returns the ID of the latest session, or "" if none.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.SessionID
}

// Subscribe registers fn to receive every published snapshot. fn is called
// outside the controller's lock, possibly from several goroutines, so
// snapshots can arrive out of order; compare Version to drop stale ones.
// The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// run opens the stream and feeds its frames through dispatch in order.
func (c *Controller) run(ctx context.Context, gen uint64, id string, req transport.Request) {
	log := logger.WithComponent("session")

	frames, err := c.transport.Open(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			c.abandon(gen)
			return
		}
		log.Error("Failed to open stream", "session_id", id, "error", err)
		c.fail(gen, fmt.Errorf("open stream: %w", err))
		return
	}

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				if ctx.Err() != nil {
					c.abandon(gen)
					return
				}
				log.Warn("Stream closed without end", "session_id", id)
				c.fail(gen, ErrStreamClosed)
				return
			}
			if frame.Err != nil {
				log.Error("Stream failed", "session_id", id, "error", frame.Err)
				c.fail(gen, frame.Err)
				return
			}
			if !c.dispatch(gen, id, frame.Event) {
				return
			}
		case <-ctx.Done():
			c.abandon(gen)
			return
		}
	}
}

// dispatch decodes and applies one raw event. It reports whether the session
// is still live.
func (c *Controller) dispatch(gen uint64, id string, raw sse.Event) bool {
	if !c.current(gen) {
		return false
	}
	if c.hook != nil {
		c.hook(raw)
	}

	ev, err := codec.Decode(raw)
	if err != nil {
		logger.WithComponent("session").Warn("Skipping undecodable event",
			"session_id", id,
			"event", raw.Name,
			"data", raw.Data,
			"error", err)
		c.mu.Lock()
		if gen == c.generation {
			c.span.decodeError(err)
		}
		c.mu.Unlock()
		return true
	}

	c.mu.Lock()
	if gen != c.generation || c.snap.State != Streaming {
		c.mu.Unlock()
		return false
	}

	next := Apply(c.snap, ev)
	switch e := ev.(type) {
	case codec.Message:
		c.span.event("message", e.Speaker)
	case codec.Summary:
		c.span.event("summary", e.Speaker)
	}
	if next.State != Streaming {
		c.teardownLocked(next.State, nil)
	}
	snap, subs := c.commitLocked(next)
	c.mu.Unlock()

	if snap.State == Ended {
		logger.WithComponent("session").Info("Session ended", "session_id", id,
			"messages", snap.Conversation.Len())
	}
	notify(subs, snap)
	return snap.State == Streaming
}

// fail moves the session of generation gen to Errored.
func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.generation || c.snap.State != Streaming {
		c.mu.Unlock()
		return
	}
	c.teardownLocked(Errored, err)
	snap, subs := c.commitLocked(Fail(c.snap, err))
	c.mu.Unlock()

	notify(subs, snap)
}

// abandon handles the caller's context ending a still-current session.
func (c *Controller) abandon(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	snap, subs, changed := c.stopLocked()
	c.mu.Unlock()

	if changed {
		logger.WithComponent("session").Info("Session cancelled", "session_id", snap.SessionID)
		notify(subs, snap)
	}
}

func (c *Controller) tick(gen uint64, phase string) {
	c.mu.Lock()
	if gen != c.generation || c.snap.State != Streaming {
		c.mu.Unlock()
		return
	}
	next := c.snap
	next.Phase = phase
	snap, subs := c.commitLocked(next)
	c.mu.Unlock()

	notify(subs, snap)
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation && c.snap.State == Streaming
}

// stopLocked invalidates the current generation and moves to Idle. changed
// is false when there was nothing to stop.
func (c *Controller) stopLocked() (Snapshot, []func(Snapshot), bool) {
	c.generation++
	if c.snap.State == Idle && c.snap.ThinkingAgent == "" && c.cancel == nil {
		return c.snap, nil, false
	}

	c.teardownLocked(Idle, nil)
	next := c.snap
	next.State = Idle
	next.ThinkingAgent = ""
	next.Phase = ""
	next.Err = nil
	snap, subs := c.commitLocked(next)
	return snap, subs, true
}

// teardownLocked releases the ticker, the connection and the span.
func (c *Controller) teardownLocked(state State, err error) {
	c.ticker.Stop()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.span != nil {
		c.span.finish(state, err)
		c.span = nil
	}
}

// commitLocked stores next with a new version and returns it along with the
// subscribers to notify once the lock is released.
func (c *Controller) commitLocked(next Snapshot) (Snapshot, []func(Snapshot)) {
	next.Version = c.snap.Version + 1
	c.snap = next

	subs := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return next, subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
