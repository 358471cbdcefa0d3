package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/session"
)

func (m chatModel) renderHeader() string {
	names := make([]string, 0, len(m.params.Characters))
	for _, name := range m.params.Characters {
		names = append(names, m.roster.Style(name).Render(name))
	}

	header := m.styles.Title.Render("cinechat")
	if len(names) > 0 {
		header += " " + strings.Join(names, ", ")
	}
	if len(m.params.Genres) > 0 {
		header += m.styles.HeaderInfo.Render(" · " + strings.Join(m.params.Genres, ", "))
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(header)
	}
	return header
}

func (m chatModel) renderConversation() string {
	entries := m.snap.Conversation.Entries()
	if len(entries) == 0 {
		return m.styles.HeaderInfo.Render("No messages yet.")
	}

	width := m.viewport.Width
	bubbleWidth := max(width*3/4, 10)

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, m.renderEntry(e, width, bubbleWidth))
	}
	return strings.Join(blocks, "\n")
}

// renderEntry draws one bubble: the user's on the right, agents on the
// left under their coloured name.
func (m chatModel) renderEntry(e session.Entry, width, bubbleWidth int) string {
	// border and padding take four columns
	textWidth := min(lipgloss.Width(e.Text), bubbleWidth-4)

	if e.Speaker == m.userSpeaker {
		bubble := m.styles.UserBubble.Width(textWidth + 2).Render(e.Text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}

	name := m.roster.Style(e.Speaker).Render(e.Speaker)
	bubble := m.styles.AgentBubble.
		BorderForeground(m.roster.Color(e.Speaker)).
		Width(textWidth + 2).
		Render(e.Text)
	return lipgloss.JoinVertical(lipgloss.Left, name, bubble)
}

func (m chatModel) renderWhiteboard(width, height int) string {
	board := m.snap.Whiteboard
	inner := max(width-4, 1)

	lines := []string{m.styles.WhiteboardTitle.Render("Whiteboard")}
	for _, name := range board.Speakers() {
		label := m.roster.Style(name).Render(name)
		if name == m.moderator {
			label += " " + m.styles.HostTag.Render("(host)")
		}
		lines = append(lines, label)

		if board.IsPending(name) {
			lines = append(lines, "  "+m.styles.Pending.Render(board.Sentinel()))
			continue
		}
		opinions, _ := board.Opinions(name)
		for _, opinion := range opinions {
			lines = append(lines, m.styles.Opinion.Width(inner).Render("• "+strings.TrimSpace(opinion)))
		}
	}

	return m.styles.Whiteboard.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}
