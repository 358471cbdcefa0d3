package chat

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/session"
)

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.Stop()
		return m, tea.Quit

	case key.Matches(msg, keys.Stop):
		m.ctrl.Stop()
		cmd := m.applySnapshot(m.ctrl.Snapshot())
		return m, cmd

	case key.Matches(msg, keys.Reset):
		m.ctrl.Reset()
		m.err = nil
		cmd := m.applySnapshot(m.ctrl.Snapshot())
		return m, cmd

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, keys.Send):
		return m.send()
	}

	if m.snap.State == session.Streaming {
		return m, nil
	}

	// Let the textarea handle the key
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	// Recalculate and update height after any key input
	newHeight := m.calculateTextAreaHeight()
	if m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.updateViewportHeight()
	}

	return m, cmd
}

// send starts a session with the typed message.
func (m chatModel) send() (tea.Model, tea.Cmd) {
	if !m.snap.State.CanSend() {
		return m, nil
	}
	if m.selectErr != nil {
		m.err = m.selectErr
		return m, nil
	}

	if err := m.ctrl.Start(m.ctx, m.textarea.Value(), m.params); err != nil {
		logger.WithComponent("tui").Debug("Send rejected", "error", err)
		m.err = err
		return m, nil
	}

	m.err = nil
	m.textarea.Reset()
	m.textarea.SetHeight(1)
	m.updateViewportHeight()
	cmd := m.applySnapshot(m.ctrl.Snapshot())
	return m, cmd
}
