package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/cinechat/pkg/config"
	"github.com/killallgit/cinechat/pkg/replay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Serve a scripted chat stream",
	Long: `replay serves a scripted panel discussion over the same event stream the
chat server speaks, for trying the client without a backend.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		script, err := loadReplayScript(cfg.Replay)
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		router := replay.NewRouter(script, cfg.Server.StreamPath)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Replaying %d events on http://%s%s\n",
			len(script.Events), cfg.Replay.Addr, cfg.Server.StreamPath)
		return replay.Serve(ctx, cfg.Replay.Addr, router)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("addr", "127.0.0.1:5000", "listen address")
	viper.BindPFlag("replay.addr", replayCmd.Flags().Lookup("addr"))

	replayCmd.Flags().String("script", "", "YAML script to replay (default is a built-in discussion)")
	viper.BindPFlag("replay.script", replayCmd.Flags().Lookup("script"))

	replayCmd.Flags().Duration("delay", replay.DefaultDelay, "pause between events of the built-in script")
	viper.BindPFlag("replay.delay", replayCmd.Flags().Lookup("delay"))
}

// loadReplayScript reads the configured script, or the built-in one
func loadReplayScript(rc config.ReplayConfig) (*replay.Script, error) {
	if rc.Script == "" {
		script := replay.DefaultScript()
		script.Delay = rc.Delay
		return script, nil
	}
	script, err := replay.LoadScript(rc.Script)
	if err != nil {
		return nil, fmt.Errorf("failed to load replay script: %w", err)
	}
	return script, nil
}
