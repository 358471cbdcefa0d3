package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Indicator IndicatorConfig `mapstructure:"indicator"`
	Roster    RosterConfig    `mapstructure:"roster"`
	Replay    ReplayConfig    `mapstructure:"replay"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// ServerConfig describes where the chat stream lives
type ServerConfig struct {
	URL        string `mapstructure:"url"`
	StreamPath string `mapstructure:"stream_path"`
	// ConnectTimeout bounds the wait for response headers only. An open
	// stream is never timed out.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// ChatConfig holds the parameters sent with each message
type ChatConfig struct {
	Genres          []string `mapstructure:"genres"`
	SeenWorks       []string `mapstructure:"seen_works"`
	Characters      []string `mapstructure:"characters"`
	EchoUserMessage bool     `mapstructure:"echo_user_message"`
	UserSpeaker     string   `mapstructure:"user_speaker"`
	Sentinel        string   `mapstructure:"sentinel"`
}

// IndicatorConfig holds the typing indicator animation settings
type IndicatorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Frames   []string      `mapstructure:"frames"`
}

// RosterConfig lists the characters a user can pick from
type RosterConfig struct {
	Required   int               `mapstructure:"required"`
	Characters []CharacterConfig `mapstructure:"characters"`
}

// CharacterConfig describes one selectable character
type CharacterConfig struct {
	Name  string `mapstructure:"name"`
	Color string `mapstructure:"color"`
}

// ReplayConfig holds settings for the scripted replay server
type ReplayConfig struct {
	Addr   string        `mapstructure:"addr"`
	Script string        `mapstructure:"script"`
	Delay  time.Duration `mapstructure:"delay"`
}

var (
	// Global config instance
	cfg *Config
)

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// IsLoaded reports whether Load has succeeded
func IsLoaded() bool {
	return cfg != nil
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	// Set defaults first
	setDefaults()

	// Configure viper
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.cinechat") // Check project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, ".cinechat"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	// Bind specific environment variables to Viper keys for explicit mapping
	bindEnvironmentVariables()

	// A missing settings file is fine; a malformed one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(loaded); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.url", "http://127.0.0.1:5000")
	viper.SetDefault("server.stream_path", "/chat/stream")
	viper.SetDefault("server.connect_timeout", "30s")

	// Chat defaults
	viper.SetDefault("chat.genres", []string{})
	viper.SetDefault("chat.seen_works", []string{})
	viper.SetDefault("chat.characters", []string{})
	viper.SetDefault("chat.echo_user_message", true)
	viper.SetDefault("chat.user_speaker", "user")
	viper.SetDefault("chat.sentinel", "（未回答）")

	// Indicator defaults
	viper.SetDefault("indicator.interval", "500ms")
	viper.SetDefault("indicator.frames", []string{".", "..", "..."})

	// Roster defaults
	viper.SetDefault("roster.required", 3)
	viper.SetDefault("roster.characters", []map[string]any{
		{"name": "Host", "color": "#6b93b5"},
		{"name": "Critic", "color": "#d95f5f"},
		{"name": "Fan", "color": "#93b56b"},
		{"name": "Scholar", "color": "#976bb5"},
	})

	// Replay server defaults
	viper.SetDefault("replay.addr", "127.0.0.1:5000")
	viper.SetDefault("replay.script", "")
	viper.SetDefault("replay.delay", "300ms")

	// Logging defaults
	viper.SetDefault("logging.log_file", "./.cinechat/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("server.url", "CINECHAT_SERVER_URL")
	viper.BindEnv("server.stream_path", "CINECHAT_STREAM_PATH")
	viper.BindEnv("server.connect_timeout", "CINECHAT_CONNECT_TIMEOUT")
	viper.BindEnv("chat.sentinel", "CINECHAT_SENTINEL")
	viper.BindEnv("chat.user_speaker", "CINECHAT_USER_SPEAKER")
	viper.BindEnv("indicator.interval", "CINECHAT_INDICATOR_INTERVAL")
	viper.BindEnv("replay.addr", "CINECHAT_REPLAY_ADDR")
	viper.BindEnv("replay.script", "CINECHAT_REPLAY_SCRIPT")
	viper.BindEnv("logging.log_file", "CINECHAT_LOG_FILE")
	viper.BindEnv("logging.level", "CINECHAT_LOG_LEVEL")
	viper.BindEnv("logging.preserve", "CINECHAT_LOG_PRESERVE")
}

// validate rejects values the rest of the program cannot run with
func validate(c *Config) error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if c.Server.ConnectTimeout < 0 {
		return fmt.Errorf("invalid server.connect_timeout: %s", c.Server.ConnectTimeout)
	}
	if c.Indicator.Interval <= 0 {
		return fmt.Errorf("invalid indicator.interval: %s", c.Indicator.Interval)
	}
	if c.Roster.Required < 0 {
		return fmt.Errorf("invalid roster.required: %d", c.Roster.Required)
	}
	if c.Replay.Delay < 0 {
		return fmt.Errorf("invalid replay.delay: %s", c.Replay.Delay)
	}
	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// StreamURL joins the server URL and the stream path
func (c *Config) StreamURL() string {
	return c.Server.URL + c.Server.StreamPath
}
