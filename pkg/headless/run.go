// Package headless runs a single chat session without a terminal UI,
// printing the conversation as it streams.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/roster"
	"github.com/killallgit/cinechat/pkg/session"
)

// ErrStopped is returned when the session was stopped by someone else.
var ErrStopped = errors.New("session stopped")

// Controller is the part of session.Controller the runner needs.
type Controller interface {
	Start(ctx context.Context, message string, params session.Parameters) error
	Stop()
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) func()
}

// Options configures a headless run.
type Options struct {
	// Out receives the conversation. Defaults to os.Stdout.
	Out io.Writer
	// Roster colours speaker names. Optional.
	Roster *roster.Roster
}

// Run starts a session for message and blocks until it ends. It prints each
// new conversation entry as "[speaker] text" and the whiteboard once the
// session is over. It returns nil when the server finished the stream, the
// transport error when the stream broke, and ctx's error when cancelled.
func Run(ctx context.Context, ctrl Controller, message string, params session.Parameters, opts Options) error {
	log := logger.WithComponent("headless")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	moderator, _ := roster.Moderator(params.Characters)
	output := NewOutput(out, opts.Roster, moderator)

	r := newRunner(output, ctrl.Snapshot())
	unsubscribe := ctrl.Subscribe(r.observe)
	defer unsubscribe()

	if err := ctrl.Start(ctx, message, params); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	log.Debug("Headless session started", "genres", params.Genres, "characters", params.Characters)

	var final session.Snapshot
	select {
	case final = <-r.done:
	case <-ctx.Done():
	}
	// Cancelling ctx also ends the session, so check it first.
	if err := ctx.Err(); err != nil {
		ctrl.Stop()
		log.Info("Headless session cancelled")
		return err
	}

	// Late deliveries may still be in flight; the latest state is authoritative.
	if latest := ctrl.Snapshot(); latest.Version > final.Version {
		final = latest
	}
	r.print(final)
	output.Whiteboard(final.Whiteboard)

	switch final.State {
	case session.Ended:
		return nil
	case session.Errored:
		output.Error(final.Err)
		return final.Err
	default:
		return ErrStopped
	}
}
