package status

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/cinechat/pkg/session"
)

func (m StatusModel) Init() tea.Cmd {
	return nil
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case SessionMsg:
		wasStreaming := m.state == session.Streaming
		m.state = msg.State
		m.agent = msg.ThinkingAgent
		m.phase = msg.Phase
		m.err = msg.Err

		if msg.State == session.Streaming && !wasStreaming {
			m.startTime = time.Now()
			m.timer = 0
			return m, tickEvery()
		}
		return m, nil

	case TickMsg:
		if m.state == session.Streaming {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
