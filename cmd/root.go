package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/killallgit/cinechat/pkg/config"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	headlessMode bool
	message      string
	rawEvents    bool
)

var rootCmd = &cobra.Command{
	Use:   "cinechat",
	Short: "Talk movies with a panel of characters",
	Long: `cinechat streams a discussion between movie characters from a chat server
and shows it live: the conversation, each character's whiteboard notes and
who is typing.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := RunApplication(ctx, &AppConfig{
			Config:   config.Get(),
			Message:  message,
			Headless: headlessMode,
			Raw:      rawEvents,
			Out:      cmd.OutOrStdout(),
			RawOut:   cmd.ErrOrStderr(),
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .cinechat/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("server", "s", "http://127.0.0.1:5000", "chat server base URL")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.Flags().BoolVarP(&headlessMode, "headless", "H", false, "run without TUI (requires --message)")
	rootCmd.Flags().StringVarP(&message, "message", "m", "", "message to send in headless mode (requires --headless)")
	rootCmd.Flags().BoolVar(&rawEvents, "raw", false, "dump every inbound event as JSON to stderr (headless only)")

	rootCmd.Flags().StringSlice("genre", nil, "preferred genre (repeatable)")
	viper.BindPFlag("chat.genres", rootCmd.Flags().Lookup("genre"))

	rootCmd.Flags().StringSlice("seen", nil, "a work you have already seen (repeatable)")
	viper.BindPFlag("chat.seen_works", rootCmd.Flags().Lookup("seen"))

	rootCmd.Flags().StringSlice("character", nil, "character to invite; the first one hosts (repeatable)")
	viper.BindPFlag("chat.characters", rootCmd.Flags().Lookup("character"))
}

func initConfig() {
	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
}
