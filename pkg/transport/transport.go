// Package transport opens the server-push chat stream a session reads from.
package transport

import (
	"context"
	"net/url"
	"strings"

	"github.com/killallgit/cinechat/pkg/sse"
)

// Request carries the user's message and selection parameters.
type Request struct {
	Message    string
	Genres     []string
	SeenWorks  []string
	Characters []string
}

// Query encodes the request as the stream URL's query string. Spaces are
// encoded as %20 rather than '+'.
func (r Request) Query() string {
	values := url.Values{}
	values.Set("user_message", r.Message)
	values.Set("genres", strings.Join(r.Genres, ","))
	values.Set("seen_movies", strings.Join(r.SeenWorks, ","))
	if len(r.Characters) > 0 {
		values.Set("characters", strings.Join(r.Characters, ","))
	}
	// A literal '+' in the input is already escaped as %2B at this point.
	return strings.ReplaceAll(values.Encode(), "+", "%20")
}

// Frame is one item delivered by an open stream: either an event or the
// error that ended the stream.
type Frame struct {
	Event sse.Event
	Err   error
}

// Transport opens event streams. The returned channel delivers frames in
// arrival order and is closed once the stream is over. A transport failure is
// delivered as a final frame with Err set; a clean close from the server just
// closes the channel. Cancelling ctx tears the connection down.
type Transport interface {
	Open(ctx context.Context, req Request) (<-chan Frame, error)
}
