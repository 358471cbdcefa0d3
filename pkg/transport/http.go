package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/sse"
)

var (
	// ErrUnexpectedStatus is returned when the server answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrUnexpectedContentType is returned when the response is not an event stream.
	ErrUnexpectedContentType = errors.New("unexpected content type")
)

const (
	// DefaultStreamPath is the chat stream endpoint.
	DefaultStreamPath = "/chat/stream"
	// DefaultConnectTimeout bounds the wait for response headers.
	DefaultConnectTimeout = 30 * time.Second

	frameBuffer   = 64
	maxErrorBytes = 4096
)

// HTTPTransport opens streams with a GET request against a chat server.
type HTTPTransport struct {
	baseURL        string
	streamPath     string
	connectTimeout time.Duration
	httpClient     *http.Client
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithStreamPath overrides the endpoint path.
func WithStreamPath(path string) Option {
	return func(t *HTTPTransport) {
		if path != "" {
			t.streamPath = path
		}
	}
}

// WithConnectTimeout bounds how long Open waits for response headers. Zero
// disables the bound. An open stream is never timed out.
func WithConnectTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		t.connectTimeout = d
	}
}

// WithHTTPClient replaces the underlying client. The connect timeout is not
// applied to a supplied client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		t.httpClient = c
	}
}

// NewHTTPTransport creates a transport for the server at baseURL.
func NewHTTPTransport(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL:        strings.TrimRight(baseURL, "/"),
		streamPath:     DefaultStreamPath,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.httpClient == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ResponseHeaderTimeout = t.connectTimeout
		// No Client.Timeout: it would cut long-lived streams.
		t.httpClient = &http.Client{Transport: base}
	}
	return t
}

// URL returns the full stream URL for req.
func (t *HTTPTransport) URL(req Request) string {
	return t.baseURL + t.streamPath + "?" + req.Query()
}

// Open sends the stream request and starts reading events in the background.
func (t *HTTPTransport) Open(ctx context.Context, req Request) (<-chan Frame, error) {
	log := logger.WithComponent("transport")

	streamURL := t.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	log.Debug("Opening stream", "url", streamURL)
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "text/event-stream" {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedContentType, resp.Header.Get("Content-Type"))
	}

	frames := make(chan Frame, frameBuffer)
	go readStream(ctx, resp.Body, frames)
	return frames, nil
}

// readStream decodes events from body until EOF, a read error, or ctx is done.
func readStream(ctx context.Context, body io.ReadCloser, frames chan<- Frame) {
	defer close(frames)
	defer body.Close()

	log := logger.WithComponent("transport")
	reader := sse.NewReader(body)

	for {
		ev, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Stream closed by server")
				return
			}
			if ctx.Err() != nil {
				// Cancelled by the owner; nobody is waiting for the error.
				return
			}
			log.Error("Stream read failed", "error", err)
			select {
			case frames <- Frame{Err: fmt.Errorf("stream reading error: %w", err)}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case frames <- Frame{Event: ev}:
		case <-ctx.Done():
			return
		}
	}
}
