package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 color palette with orange, brown, yellow, and pink tones
// Based on Autumn theme with warm earth tones
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	// Accent colors
	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorCyan   = lipgloss.Color("#61afaf")
	ColorBlue   = lipgloss.Color("#6b93b5")
	ColorPurple = lipgloss.Color("#976bb5")
	ColorViolet = lipgloss.Color("#6c71c4")

	// UI specific colors
	ColorBorder = ColorBase03
	ColorFocus  = ColorOrange
	ColorError  = ColorRed
	ColorMuted  = ColorBase03
)

// Styles defines the Lipgloss styles for the chat screen
type Styles struct {
	// Header
	Title      lipgloss.Style
	HeaderInfo lipgloss.Style

	// Conversation bubbles
	UserBubble  lipgloss.Style
	AgentBubble lipgloss.Style
	AgentName   lipgloss.Style

	// Whiteboard panel
	Whiteboard      lipgloss.Style
	WhiteboardTitle lipgloss.Style
	Pending         lipgloss.Style
	Opinion         lipgloss.Style
	HostTag         lipgloss.Style

	// Input
	InputFocused  lipgloss.Style
	InputDisabled lipgloss.Style

	// Feedback
	Typing       lipgloss.Style
	ErrorMessage lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true),

		HeaderInfo: lipgloss.NewStyle().
			Foreground(ColorBase04),

		UserBubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGreen).
			Foreground(ColorBase07).
			Padding(0, 1),

		AgentBubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Foreground(ColorBase06).
			Padding(0, 1),

		AgentName: lipgloss.NewStyle().
			Bold(true),

		Whiteboard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		WhiteboardTitle: lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true),

		Pending: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Opinion: lipgloss.NewStyle().
			Foreground(ColorBase06),

		HostTag: lipgloss.NewStyle().
			Foreground(ColorBase04),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus),

		InputDisabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBase02).
			Foreground(ColorMuted),

		Typing: lipgloss.NewStyle().
			Foreground(ColorViolet),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(ColorBase03),
	}
}
