package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func collect(t *testing.T, frames <-chan Frame) []Frame {
	t.Helper()
	var out []Frame
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func TestRequestQuery(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected url.Values
		raw      string
	}{
		{
			name: "message with spaces",
			req:  Request{Message: "recommend me a movie", Genres: []string{"SF"}},
			expected: url.Values{
				"user_message": {"recommend me a movie"},
				"genres":       {"SF"},
				"seen_movies":  {""},
			},
		},
		{
			name: "empty parameters are still sent",
			req:  Request{Message: "hi"},
			expected: url.Values{
				"user_message": {"hi"},
				"genres":       {""},
				"seen_movies":  {""},
			},
		},
		{
			name: "lists are comma joined",
			req: Request{
				Message:    "a+b & c",
				Genres:     []string{"SF", "Romantic Comedy"},
				SeenWorks:  []string{"Alien", "Her"},
				Characters: []string{"Host", "Critic"},
			},
			expected: url.Values{
				"user_message": {"a+b & c"},
				"genres":       {"SF,Romantic Comedy"},
				"seen_movies":  {"Alien,Her"},
				"characters":   {"Host,Critic"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := tt.req.Query()
			assert.NotContains(t, query, "+")

			parsed, err := url.ParseQuery(query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestQueryEncodesSpacesAsPercent20(t *testing.T) {
	query := Request{Message: "a b"}.Query()
	assert.Contains(t, query, "user_message=a%20b")
}

func TestOpenStreamsScript(t *testing.T) {
	script := &replay.Script{
		End: true,
		Events: []replay.ScriptEvent{
			{Speaker: "Host", Text: "Hi"},
			{Speaker: "Host", Text: "Likes SF", Summary: true},
		},
	}
	server := httptest.NewServer(replay.NewRouter(script, DefaultStreamPath))
	defer server.Close()

	tr := NewHTTPTransport(server.URL)
	frames, err := tr.Open(context.Background(), Request{Message: "recommend me a movie", Genres: []string{"SF"}})
	require.NoError(t, err)

	got := collect(t, frames)
	require.Len(t, got, 3)
	for _, f := range got {
		require.NoError(t, f.Err)
	}

	ev, err := codec.Decode(got[0].Event)
	require.NoError(t, err)
	assert.Equal(t, codec.Message{Speaker: "Host", Text: "Hi"}, ev)
	assert.Equal(t, codec.EventEnd, got[2].Event.Name)
}

func TestOpenSendsQueryAndAcceptHeader(t *testing.T) {
	var gotQuery url.Values
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL+"/", WithStreamPath("/custom/stream"))
	assert.Contains(t, tr.URL(Request{Message: "x"}), server.URL+"/custom/stream?")

	frames, err := tr.Open(context.Background(), Request{Message: "hello world", SeenWorks: []string{"Alien"}})
	require.NoError(t, err)
	assert.Empty(t, collect(t, frames))

	assert.Equal(t, "text/event-stream", gotAccept)
	assert.Equal(t, "hello world", gotQuery.Get("user_message"))
	assert.Equal(t, "Alien", gotQuery.Get("seen_movies"))
}

func TestOpenRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(replay.NewRouter(nil, DefaultStreamPath))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL).Open(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "missing user_message")
}

func TestOpenRejectsWrongContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL).Open(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrUnexpectedContentType)
}

func TestOpenConnectFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewHTTPTransport(addr).Open(context.Background(), Request{Message: "hi"})
	assert.Error(t, err)
}

func TestOpenConnectTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewHTTPTransport(server.URL, WithConnectTimeout(20*time.Millisecond)).
		Open(context.Background(), Request{Message: "hi"})
	assert.Error(t, err)
}

func TestAbortedStreamDeliversError(t *testing.T) {
	script := &replay.Script{Abort: true, Events: []replay.ScriptEvent{{Speaker: "Host", Text: "Hi"}}}
	server := httptest.NewServer(replay.NewRouter(script, DefaultStreamPath))
	defer server.Close()

	frames, err := NewHTTPTransport(server.URL).Open(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	got := collect(t, frames)
	require.Len(t, got, 2)
	assert.NoError(t, got[0].Err)
	assert.Error(t, got[1].Err)
}

func TestCancelClosesStream(t *testing.T) {
	script := &replay.Script{
		Delay:  time.Hour,
		End:    true,
		Events: []replay.ScriptEvent{{Speaker: "Host", Text: "Hi"}, {Speaker: "Host", Text: "never"}},
	}
	server := httptest.NewServer(replay.NewRouter(script, DefaultStreamPath))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	frames, err := NewHTTPTransport(server.URL).Open(ctx, Request{Message: "hi"})
	require.NoError(t, err)

	first := <-frames
	require.NoError(t, first.Err)
	cancel()

	for f := range frames {
		assert.False(t, errors.Is(f.Err, context.Canceled), "cancellation is not reported as a frame")
	}
}
