// Package roster holds the characters a user can invite into a chat and the
// rules for picking them.
package roster

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/config"
)

// ErrSelection is wrapped by every selection validation failure.
var ErrSelection = errors.New("invalid character selection")

// DefaultColor is used for speakers without a configured colour.
const DefaultColor = "#a8a8a8"

// Character is a selectable panelist.
type Character struct {
	Name  string
	Color string
}

// Roster is the ordered list of selectable characters.
type Roster struct {
	characters []Character
	index      map[string]int
}

// New builds a roster. Duplicate names keep their first entry.
func New(characters ...Character) *Roster {
	r := &Roster{index: map[string]int{}}
	for _, c := range characters {
		if c.Name == "" {
			continue
		}
		if _, dup := r.index[c.Name]; dup {
			continue
		}
		if c.Color == "" {
			c.Color = DefaultColor
		}
		r.index[c.Name] = len(r.characters)
		r.characters = append(r.characters, c)
	}
	return r
}

// FromConfig builds a roster from the roster settings.
func FromConfig(cfg config.RosterConfig) *Roster {
	characters := make([]Character, 0, len(cfg.Characters))
	for _, c := range cfg.Characters {
		characters = append(characters, Character{Name: c.Name, Color: c.Color})
	}
	return New(characters...)
}

// Characters returns the roster in order.
func (r *Roster) Characters() []Character {
	result := make([]Character, len(r.characters))
	copy(result, r.characters)
	return result
}

// Names returns the character names in order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.characters))
	for i, c := range r.characters {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a character by name.
func (r *Roster) Lookup(name string) (Character, bool) {
	i, ok := r.index[name]
	if !ok {
		return Character{}, false
	}
	return r.characters[i], true
}

// Default returns the first required names, or every name when required is
// not positive.
func (r *Roster) Default(required int) []string {
	names := r.Names()
	if required > 0 && required < len(names) {
		names = names[:required]
	}
	return names
}

// Select validates a selection: every name must be on the roster, none may
// repeat, and when required is positive exactly that many must be chosen.
func (r *Roster) Select(names []string, required int) ([]string, error) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.index[name]; !ok {
			return nil, fmt.Errorf("%w: unknown character %q", ErrSelection, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q selected twice", ErrSelection, name)
		}
		seen[name] = true
	}
	if required > 0 && len(names) != required {
		return nil, fmt.Errorf("%w: choose exactly %d characters, got %d", ErrSelection, required, len(names))
	}
	return append([]string(nil), names...), nil
}

// Moderator returns the first selected character, who hosts the discussion.
func Moderator(selected []string) (string, bool) {
	if len(selected) == 0 {
		return "", false
	}
	return selected[0], true
}

// Color returns the colour for a speaker, falling back to DefaultColor.
func (r *Roster) Color(name string) lipgloss.Color {
	if c, ok := r.Lookup(name); ok {
		return lipgloss.Color(c.Color)
	}
	return lipgloss.Color(DefaultColor)
}

// Style returns the bold foreground style used to render a speaker's name.
func (r *Roster) Style(name string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(r.Color(name))
}
