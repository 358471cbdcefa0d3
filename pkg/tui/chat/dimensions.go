package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// header, status, error and help lines plus the input border
	chromeHeight  = 6
	minBoardWidth = 24
)

// calculateTextAreaHeight determines the visual height of the textarea
// based on its content and wrapping
func (m *chatModel) calculateTextAreaHeight() int {
	content := m.textarea.Value()
	if content == "" {
		return 1
	}

	lines := strings.Split(content, "\n")
	totalVisualLines := 0

	textWidth := m.textarea.Width()
	if textWidth <= 0 {
		textWidth = m.width - 4
		if textWidth <= 0 {
			textWidth = 80 // fallback
		}
	}

	for _, line := range lines {
		if line == "" {
			totalVisualLines++
			continue
		}
		lineWidth := runewidth.StringWidth(line)
		visualLines := (lineWidth + textWidth - 1) / textWidth
		if visualLines < 1 {
			visualLines = 1
		}
		totalVisualLines += visualLines
	}

	maxHeight := 5
	if totalVisualLines > maxHeight {
		return maxHeight
	}
	return totalVisualLines
}

// updateViewportHeight adjusts the body height based on textarea size
func (m *chatModel) updateViewportHeight() {
	if m.height > 0 {
		m.viewport.Height = max(m.height-m.calculateTextAreaHeight()-chromeHeight, 1)
	}
}

// boardWidth is the width of the whiteboard panel
func (m *chatModel) boardWidth() int {
	if m.width <= 0 {
		return minBoardWidth + 6
	}
	return max(m.width/3, minBoardWidth)
}

// handleWindowResize updates all dimensions when window size changes
func (m *chatModel) handleWindowResize(width, height int) {
	m.width = width
	m.height = height

	m.help.Width = width
	m.textarea.SetWidth(max(width-4, 1))
	m.textarea.SetHeight(m.calculateTextAreaHeight())

	m.viewport.Width = max(width-m.boardWidth(), 1)
	m.updateViewportHeight()

	m.updateViewportContent()
}
