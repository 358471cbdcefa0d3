package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/cinechat/pkg/roster"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/tui/chat/status"
	"github.com/killallgit/cinechat/pkg/tui/theme"
)

const (
	placeholderReady     = "Ask the panel about movies..."
	placeholderStreaming = "The panel is talking..."
)

// Controller is the part of session.Controller the chat screen drives
type Controller interface {
	Start(ctx context.Context, message string, params session.Parameters) error
	Stop()
	Reset()
	Snapshot() session.Snapshot
}

// Config holds what the chat screen sends with every message
type Config struct {
	Params session.Parameters
	// Required is the number of characters a valid selection holds.
	Required int
	Roster   *roster.Roster
	// UserSpeaker is the speaker name of echoed user messages.
	UserSpeaker string
}

type chatModel struct {
	ctx     context.Context
	ctrl    Controller
	updates *Updates

	roster      *roster.Roster
	params      session.Parameters
	userSpeaker string
	moderator   string
	selectErr   error

	snap     session.Snapshot
	viewport viewport.Model
	textarea textarea.Model
	status   status.StatusModel
	help     help.Model
	err      error
	width    int
	height   int
	styles   *theme.Styles
}

func NewChatModel(ctx context.Context, ctrl Controller, updates *Updates, cfg Config) chatModel {
	ta := textarea.New()
	ta.Focus()
	ta.Placeholder = placeholderReady
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")

	r := cfg.Roster
	if r == nil {
		r = roster.New()
	}
	userSpeaker := cfg.UserSpeaker
	if userSpeaker == "" {
		userSpeaker = "user"
	}

	m := chatModel{
		ctx:         ctx,
		ctrl:        ctrl,
		updates:     updates,
		roster:      r,
		params:      cfg.Params,
		userSpeaker: userSpeaker,
		snap:        ctrl.Snapshot(),
		viewport:    createViewport(80, 20),
		textarea:    ta,
		status:      status.NewStatusModel(),
		help:        help.New(),
		styles:      theme.DefaultStyles(),
	}
	m.help.Styles.ShortKey = m.styles.Help
	m.help.Styles.ShortDesc = m.styles.Help
	m.help.Styles.ShortSeparator = m.styles.Help
	m.moderator, _ = roster.Moderator(cfg.Params.Characters)
	if len(r.Names()) > 0 {
		_, m.selectErr = r.Select(cfg.Params.Characters, cfg.Required)
	}
	if m.snap.State == session.Streaming {
		m.textarea.Blur()
		m.textarea.Placeholder = placeholderStreaming
	}
	m.status, _ = m.applyStatus(m.snap)
	return m
}
