package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/killallgit/cinechat/pkg/config"
	"github.com/killallgit/cinechat/pkg/headless"
	"github.com/killallgit/cinechat/pkg/indicator"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/roster"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/transport"
	"github.com/killallgit/cinechat/pkg/tui"
	"github.com/killallgit/cinechat/pkg/tui/chat"
	"github.com/muesli/termenv"
)

var (
	errMessageRequired         = errors.New("--headless requires --message")
	errMessageRequiresHeadless = errors.New("--message requires --headless")
	errRawRequiresHeadless     = errors.New("--raw requires --headless")
)

// AppConfig contains all configuration needed to run the application
type AppConfig struct {
	Config   *config.Config
	Message  string
	Headless bool
	// Raw dumps every inbound event to RawOut.
	Raw    bool
	Out    io.Writer
	RawOut io.Writer
}

// RunApplication is the main entry point for the application logic
func RunApplication(ctx context.Context, appCfg *AppConfig) error {
	log := logger.WithComponent("app")
	cfg := appCfg.Config

	if appCfg.Headless && strings.TrimSpace(appCfg.Message) == "" {
		return errMessageRequired
	}
	if !appCfg.Headless && strings.TrimSpace(appCfg.Message) != "" {
		return errMessageRequiresHeadless
	}
	if appCfg.Raw && !appCfg.Headless {
		return errRawRequiresHeadless
	}

	r := roster.FromConfig(cfg.Roster)
	params, err := selectParameters(cfg, r)
	if err != nil {
		return err
	}
	ctrl := newController(cfg, params.Characters, appCfg)

	log.Info("Application starting",
		"server", cfg.StreamURL(),
		"headless", appCfg.Headless,
		"characters", params.Characters,
	)

	if appCfg.Headless {
		return headless.Run(ctx, ctrl, appCfg.Message, params, headless.Options{
			Out:    appCfg.Out,
			Roster: r,
		})
	}

	return tui.StartApp(ctx, ctrl, chat.Config{
		Params:      params,
		Required:    cfg.Roster.Required,
		Roster:      r,
		UserSpeaker: cfg.Chat.UserSpeaker,
	})
}

// selectParameters validates the configured characters, falling back to
// the head of the roster when none were chosen.
func selectParameters(cfg *config.Config, r *roster.Roster) (session.Parameters, error) {
	characters := cfg.Chat.Characters
	if len(characters) == 0 {
		characters = r.Default(cfg.Roster.Required)
	}
	selected, err := r.Select(characters, cfg.Roster.Required)
	if err != nil {
		return session.Parameters{}, err
	}
	return session.Parameters{
		Genres:     cfg.Chat.Genres,
		SeenWorks:  cfg.Chat.SeenWorks,
		Characters: selected,
	}, nil
}

func newController(cfg *config.Config, speakers []string, appCfg *AppConfig) *session.Controller {
	t := transport.NewHTTPTransport(cfg.Server.URL,
		transport.WithStreamPath(cfg.Server.StreamPath),
		transport.WithConnectTimeout(cfg.Server.ConnectTimeout),
	)

	opts := []session.Option{
		session.WithTicker(indicator.New(cfg.Indicator.Interval, cfg.Indicator.Frames...)),
		session.WithSentinel(cfg.Chat.Sentinel),
		session.WithSpeakers(speakers...),
	}
	if cfg.Chat.EchoUserMessage {
		opts = append(opts, session.WithUserEcho(cfg.Chat.UserSpeaker))
	}
	if appCfg.Raw {
		out := appCfg.RawOut
		if out == nil {
			out = os.Stderr
		}
		opts = append(opts, session.WithEventHook(headless.NewRawPrinter(out, rawFormatter(out)).Hook()))
	}
	return session.New(t, opts...)
}

// rawFormatter picks the chroma formatter matching w's colour support
func rawFormatter(w io.Writer) string {
	switch termenv.NewOutput(w).Profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return "noop"
	}
}
