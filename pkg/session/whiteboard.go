package session

// DefaultSentinel marks a speaker who has not been summarized yet.
const DefaultSentinel = "（未回答）"

// Whiteboard maps each speaker to their summarized opinions. Known speakers
// start with a single sentinel entry. Values are immutable; every update
// returns a new board.
type Whiteboard struct {
	sentinel string
	order    []string
	opinions map[string][]string
}

// NewWhiteboard creates a board with each speaker seeded with the sentinel.
// An empty sentinel uses DefaultSentinel.
func NewWhiteboard(sentinel string, speakers ...string) Whiteboard {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	w := Whiteboard{sentinel: sentinel, opinions: map[string][]string{}}
	return w.Seed(speakers...)
}

// Seed returns the board with any speakers it does not know yet added in
// the pending state. Known speakers are left alone.
func (w Whiteboard) Seed(speakers ...string) Whiteboard {
	next := w.clone()
	for _, speaker := range speakers {
		if _, ok := next.opinions[speaker]; ok {
			continue
		}
		next.order = append(next.order, speaker)
		next.opinions[speaker] = []string{next.sentinel}
	}
	return next
}

// Fold records a summary for speaker. The first summary replaces the
// sentinel; later ones are appended. A speaker the board has never seen gets
// a fresh single-entry list.
func (w Whiteboard) Fold(speaker, text string) Whiteboard {
	next := w.clone()
	current, ok := next.opinions[speaker]
	switch {
	case !ok:
		next.order = append(next.order, speaker)
		next.opinions[speaker] = []string{text}
	case next.isSentinel(current):
		next.opinions[speaker] = []string{text}
	default:
		opinions := make([]string, len(current)+1)
		copy(opinions, current)
		opinions[len(current)] = text
		next.opinions[speaker] = opinions
	}
	return next
}

// Opinions returns a copy of speaker's entry.
func (w Whiteboard) Opinions(speaker string) ([]string, bool) {
	current, ok := w.opinions[speaker]
	if !ok {
		return nil, false
	}
	result := make([]string, len(current))
	copy(result, current)
	return result, true
}

// IsPending reports whether speaker is known and still holds only the sentinel.
func (w Whiteboard) IsPending(speaker string) bool {
	current, ok := w.opinions[speaker]
	return ok && w.isSentinel(current)
}

// Speakers returns the known speakers in the order they were first seen.
func (w Whiteboard) Speakers() []string {
	result := make([]string, len(w.order))
	copy(result, w.order)
	return result
}

// Sentinel returns the pending marker.
func (w Whiteboard) Sentinel() string {
	if w.sentinel == "" {
		return DefaultSentinel
	}
	return w.sentinel
}

// Map returns a deep copy of the board.
func (w Whiteboard) Map() map[string][]string {
	result := make(map[string][]string, len(w.opinions))
	for speaker, opinions := range w.opinions {
		cp := make([]string, len(opinions))
		copy(cp, opinions)
		result[speaker] = cp
	}
	return result
}

func (w Whiteboard) isSentinel(opinions []string) bool {
	return len(opinions) == 1 && opinions[0] == w.Sentinel()
}

// clone copies the map and order slice. Opinion slices are shared because
// they are never written in place.
func (w Whiteboard) clone() Whiteboard {
	next := Whiteboard{
		sentinel: w.Sentinel(),
		order:    make([]string, len(w.order), len(w.order)+1),
		opinions: make(map[string][]string, len(w.opinions)+1),
	}
	copy(next.order, w.order)
	for speaker, opinions := range w.opinions {
		next.opinions[speaker] = opinions
	}
	return next
}
