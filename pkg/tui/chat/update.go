package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/tui/chat/status"
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.status, cmd = updateStatus(m.status, msg)
		return m, cmd

	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case SnapshotMsg:
		cmd := m.applySnapshot(msg.Snapshot)
		return m, tea.Batch(cmd, waitForSnapshot(m.ctx, m.updates))

	case status.TickMsg:
		var cmd tea.Cmd
		m.status, cmd = updateStatus(m.status, msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applySnapshot renders s unless something newer is already on screen.
// Input is disabled while s is streaming.
func (m *chatModel) applySnapshot(s session.Snapshot) tea.Cmd {
	if s.Version <= m.snap.Version {
		return nil
	}
	grew := s.Conversation.Len() != m.snap.Conversation.Len()
	m.snap = s

	m.updateViewportContent()
	if grew {
		m.viewport.GotoBottom()
	}

	var cmds []tea.Cmd
	if s.State == session.Streaming {
		m.textarea.Blur()
		m.textarea.Placeholder = placeholderStreaming
	} else if !m.textarea.Focused() {
		m.textarea.Placeholder = placeholderReady
		cmds = append(cmds, m.textarea.Focus())
	}

	var cmd tea.Cmd
	m.status, cmd = m.applyStatus(s)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m chatModel) applyStatus(s session.Snapshot) (status.StatusModel, tea.Cmd) {
	return updateStatus(m.status, status.FromSnapshot(s))
}

func updateStatus(s status.StatusModel, msg tea.Msg) (status.StatusModel, tea.Cmd) {
	next, cmd := s.Update(msg)
	return next.(status.StatusModel), cmd
}
