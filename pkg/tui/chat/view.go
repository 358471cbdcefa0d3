package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/session"
)

func (m chatModel) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewport.View(),
		m.renderWhiteboard(m.boardWidth(), m.viewport.Height),
	)

	var errLine string
	if m.err != nil {
		errLine = m.styles.ErrorMessage.Render(m.err.Error())
	}

	inputStyle := m.styles.InputFocused
	if m.snap.State == session.Streaming {
		inputStyle = m.styles.InputDisabled
	}

	return strings.Join([]string{
		m.renderHeader(),
		body,
		m.status.View(),
		errLine,
		inputStyle.Render(m.textarea.View()),
		m.help.View(keys),
	}, "\n")
}
