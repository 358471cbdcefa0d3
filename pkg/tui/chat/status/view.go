package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/tui/theme"
)

func (m StatusModel) View() string {
	var components []string

	switch m.state {
	case session.Streaming:
		if m.agent != "" {
			components = append(components, m.styles.Typing.Render(fmt.Sprintf("%s is typing%s", m.agent, m.phase)))
		} else {
			components = append(components, m.styles.Typing.Render("Waiting for the panel"+m.phase))
		}
		if m.timer > 0 {
			minutes := int(m.timer.Minutes())
			seconds := int(m.timer.Seconds()) % 60
			timerStyle := lipgloss.NewStyle().Foreground(theme.ColorBase04)
			components = append(components, timerStyle.Render(fmt.Sprintf("%02d:%02d", minutes, seconds)))
		}
	case session.Errored:
		text := m.state.DisplayName()
		if m.err != nil {
			text += ": " + m.err.Error()
		}
		components = append(components, m.styles.ErrorMessage.Render(text))
	case session.Ended:
		components = append(components, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.state.DisplayName()))
	default:
		return ""
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorBase03).Render(" | ")
	line := strings.Join(components, separator)
	if m.width == 0 {
		return line
	}
	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Render(line)
}
