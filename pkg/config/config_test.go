package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.URL)
	assert.Equal(t, "/chat/stream", cfg.Server.StreamPath)
	assert.Equal(t, 30*time.Second, cfg.Server.ConnectTimeout)
	assert.Equal(t, "http://127.0.0.1:5000/chat/stream", cfg.StreamURL())

	assert.Empty(t, cfg.Chat.Genres)
	assert.Empty(t, cfg.Chat.SeenWorks)
	assert.True(t, cfg.Chat.EchoUserMessage)
	assert.Equal(t, "user", cfg.Chat.UserSpeaker)
	assert.Equal(t, "（未回答）", cfg.Chat.Sentinel)

	assert.Equal(t, 500*time.Millisecond, cfg.Indicator.Interval)
	assert.Equal(t, []string{".", "..", "..."}, cfg.Indicator.Frames)

	assert.Equal(t, 3, cfg.Roster.Required)
	require.Len(t, cfg.Roster.Characters, 4)
	assert.Equal(t, CharacterConfig{Name: "Host", Color: "#6b93b5"}, cfg.Roster.Characters[0])

	assert.Equal(t, "127.0.0.1:5000", cfg.Replay.Addr)
	assert.Equal(t, 300*time.Millisecond, cfg.Replay.Delay)

	assert.Equal(t, "./.cinechat/system.log", cfg.Logging.LogFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Preserve)

	assert.Same(t, cfg, Get())
	assert.True(t, IsLoaded())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "settings.yaml")

	configContent := `
server:
  url: http://movies.test:8080
  connect_timeout: "5s"
chat:
  genres: ["SF", "Comedy"]
  seen_works: ["Alien"]
  characters: ["Host", "Fan", "Critic"]
  echo_user_message: false
indicator:
  interval: "250ms"
  frames: ["-", "=", "#"]
roster:
  required: 2
  characters:
    - name: Host
      color: "#ffffff"
    - name: Fan
logging:
  level: debug
  preserve: true
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	viper.Reset()
	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://movies.test:8080", cfg.Server.URL)
	assert.Equal(t, "/chat/stream", cfg.Server.StreamPath)
	assert.Equal(t, 5*time.Second, cfg.Server.ConnectTimeout)
	assert.Equal(t, []string{"SF", "Comedy"}, cfg.Chat.Genres)
	assert.Equal(t, []string{"Alien"}, cfg.Chat.SeenWorks)
	assert.Equal(t, []string{"Host", "Fan", "Critic"}, cfg.Chat.Characters)
	assert.False(t, cfg.Chat.EchoUserMessage)
	assert.Equal(t, 250*time.Millisecond, cfg.Indicator.Interval)
	assert.Equal(t, []string{"-", "=", "#"}, cfg.Indicator.Frames)
	assert.Equal(t, 2, cfg.Roster.Required)
	assert.Equal(t, []CharacterConfig{{Name: "Host", Color: "#ffffff"}, {Name: "Fan"}}, cfg.Roster.Characters)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Preserve)
	assert.Equal(t, configFile, GetConfigFileUsed())
	assert.Equal(t, tmpDir, BaseSettingsDir())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("CINECHAT_SERVER_URL", "http://env.test")
	t.Setenv("CINECHAT_INDICATOR_INTERVAL", "1s")
	t.Setenv("CINECHAT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.test", cfg.Server.URL)
	assert.Equal(t, time.Second, cfg.Indicator.Interval)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero indicator interval", "indicator:\n  interval: \"0s\"\n"},
		{"empty server url", "server:\n  url: \"\"\n"},
		{"negative roster size", "roster:\n  required: -1\n"},
		{"unparseable duration", "server:\n  connect_timeout: \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0644))

			viper.Reset()
			_, err := Load(configFile)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server: [unclosed"), 0644))

	viper.Reset()
	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestBuildSettingsPath(t *testing.T) {
	viper.Reset()

	assert.Equal(t, filepath.Join(DefaultSettingsDir, "system.log"), BuildSettingsPath("./logs/system.log"))
	assert.Equal(t, "/var/log/cinechat.log", BuildSettingsPath("/var/log/cinechat.log"))

	viper.Set("config.path", "/tmp/settings")
	assert.Equal(t, "/tmp/settings/system.log", BuildSettingsPath("system.log"))
}
