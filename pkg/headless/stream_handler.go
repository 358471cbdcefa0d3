package headless

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/killallgit/cinechat/pkg/sse"
)

// rawEvent is the JSON shape of a dumped event. Data is embedded as JSON
// when it parses, otherwise as a string.
type rawEvent struct {
	ID    string `json:"id,omitempty"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// RawPrinter dumps every inbound event as highlighted JSON.
type RawPrinter struct {
	w         io.Writer
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style

	mu sync.Mutex
}

// NewRawPrinter creates a printer using the named chroma formatter
// ("terminal16m", "terminal256", "noop", ...). Unknown names fall back to
// plain output.
func NewRawPrinter(w io.Writer, formatterName string) *RawPrinter {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &RawPrinter{
		w:         w,
		lexer:     chroma.Coalesce(lexer),
		formatter: formatter,
		style:     style,
	}
}

// Hook returns the printer as a session event hook.
func (p *RawPrinter) Hook() func(sse.Event) {
	return func(ev sse.Event) {
		if err := p.Print(ev); err != nil {
			fmt.Fprintf(p.w, "%s\n", ev.Data)
		}
	}
}

// Print writes one event.
func (p *RawPrinter) Print(ev sse.Event) error {
	name := ev.Name
	if name == "" {
		name = "message"
	}
	record := rawEvent{ID: ev.ID, Event: name, Data: ev.Data}
	if json.Valid([]byte(ev.Data)) {
		record.Data = json.RawMessage(ev.Data)
	}

	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	iterator, err := p.lexer.Tokenise(nil, string(body))
	if err != nil {
		return fmt.Errorf("failed to tokenise event: %w", err)
	}

	var buf bytes.Buffer
	if err := p.formatter.Format(&buf, p.style, iterator); err != nil {
		return fmt.Errorf("failed to format event: %w", err)
	}
	buf.WriteByte('\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.w.Write(buf.Bytes())
	return err
}
