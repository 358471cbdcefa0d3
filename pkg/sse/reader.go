// Package sse implements the text/event-stream wire format used between the
// chat server and the session controller.
package sse

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Event is one dispatched server-sent event.
type Event struct {
	ID    string
	Name  string // empty means the default "message" channel
	Data  string
	Retry time.Duration
}

// Reader decodes events from a text/event-stream body.
type Reader struct {
	r *bufio.Reader
	// skipLF is set after a CR so that a following LF completes a CRLF
	// pair instead of ending an empty line.
	skipLF bool
}

// NewReader wraps r in an event reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next blocks until a complete event is available. It returns io.EOF once the
// stream is exhausted; a trailing block without its blank-line terminator is
// discarded.
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    strings.Builder
		hasData bool
		hasName bool
	)

	for {
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if line == "" {
			if !hasData && !hasName {
				// Empty block (or keep-alive comments only).
				ev = Event{}
				continue
			}
			ev.Data = data.String()
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "event":
			ev.Name = value
			hasName = true
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				ev.ID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

// readLine returns the next line without its terminator. Lines end in LF,
// CRLF or a lone CR. A line cut off by the end of the stream is dropped.
func (r *Reader) readLine() (string, error) {
	var line []byte
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return "", err
		}
		if r.skipLF {
			r.skipLF = false
			if b == '\n' {
				continue
			}
		}
		switch b {
		case '\n':
			return string(line), nil
		case '\r':
			r.skipLF = true
			return string(line), nil
		}
		line = append(line, b)
	}
}
