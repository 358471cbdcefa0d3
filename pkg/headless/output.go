package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/roster"
	"github.com/killallgit/cinechat/pkg/session"
)

// Output renders conversation entries and the whiteboard as plain lines.
// Speaker names are coloured when the writer is a colour terminal.
type Output struct {
	w         io.Writer
	renderer  *lipgloss.Renderer
	roster    *roster.Roster
	moderator string
}

// NewOutput creates an output writing to w. r may be nil.
func NewOutput(w io.Writer, r *roster.Roster, moderator string) *Output {
	if r == nil {
		r = roster.New()
	}
	return &Output{
		w:         w,
		renderer:  lipgloss.NewRenderer(w),
		roster:    r,
		moderator: moderator,
	}
}

func (o *Output) speaker(name string) string {
	return o.renderer.NewStyle().Bold(true).Foreground(o.roster.Color(name)).Render(name)
}

// Entry prints one conversation entry as "[speaker] text".
func (o *Output) Entry(e session.Entry) {
	fmt.Fprintf(o.w, "[%s] %s\n", o.speaker(e.Speaker), e.Text)
}

// Whiteboard prints every speaker's opinions, or the pending marker.
func (o *Output) Whiteboard(board session.Whiteboard) {
	speakers := board.Speakers()
	if len(speakers) == 0 {
		return
	}

	dim := o.renderer.NewStyle().Faint(true)
	fmt.Fprintln(o.w)
	fmt.Fprintln(o.w, "--- Whiteboard ---")
	for _, name := range speakers {
		label := o.speaker(name)
		if name == o.moderator {
			label += " (host)"
		}
		fmt.Fprintf(o.w, "%s:\n", label)

		if board.IsPending(name) {
			fmt.Fprintf(o.w, "  %s\n", dim.Render(board.Sentinel()))
			continue
		}
		opinions, _ := board.Opinions(name)
		for _, opinion := range opinions {
			fmt.Fprintf(o.w, "  - %s\n", strings.TrimSpace(opinion))
		}
	}
}

// Error prints a failure line.
func (o *Output) Error(err error) {
	fmt.Fprintf(o.w, "\n[error] %v\n", err)
}
