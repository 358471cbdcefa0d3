// Package tui is the interactive terminal front end for a chat session.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/tui/chat"
)

// Controller is what the TUI needs from session.Controller
type Controller interface {
	chat.Controller
	Subscribe(fn func(session.Snapshot)) func()
}

// StartApp runs the chat screen until the user quits or ctx is done. Any
// live session is stopped on the way out.
func StartApp(ctx context.Context, ctrl Controller, cfg chat.Config) error {
	log := logger.WithComponent("tui")

	updates := chat.NewUpdates()
	unsubscribe := ctrl.Subscribe(updates.Push)
	defer unsubscribe()
	defer ctrl.Stop()

	model := chat.NewChatModel(ctx, ctrl, updates, cfg)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	log.Info("Starting TUI", "characters", cfg.Params.Characters, "genres", cfg.Params.Genres)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
