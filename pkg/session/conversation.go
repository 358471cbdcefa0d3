package session

// Entry is one message in the conversation log.
type Entry struct {
	Speaker string
	Text    string
}

// Conversation is an append-only message log. Values are immutable: Append
// returns a new log and never touches the receiver's backing array, so a
// Conversation handed to a renderer stays valid.
type Conversation struct {
	entries []Entry
}

// NewConversation creates a log holding entries in order.
func NewConversation(entries ...Entry) Conversation {
	conv := Conversation{}
	for _, e := range entries {
		conv = conv.Append(e)
	}
	return conv
}

// Append returns the log with e added at the end.
func (c Conversation) Append(e Entry) Conversation {
	entries := make([]Entry, len(c.entries)+1)
	copy(entries, c.entries)
	entries[len(c.entries)] = e
	return Conversation{entries: entries}
}

// Entries returns a copy of the log.
func (c Conversation) Entries() []Entry {
	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Len returns the number of entries.
func (c Conversation) Len() int {
	return len(c.entries)
}

// At returns the i-th entry.
func (c Conversation) At(i int) Entry {
	return c.entries[i]
}

// Last returns the most recent entry.
func (c Conversation) Last() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}
