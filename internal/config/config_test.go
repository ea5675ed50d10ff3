package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "5m", cfg.PriceFeed.Interval)
	assert.Equal(t, 15, cfg.Evaluation.GraceMinutes)
	assert.Equal(t, 4, cfg.Evaluation.MaxConcurrency)
	assert.Equal(t, 2.0, cfg.Bankroll.StakePercent)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  bot_token: file-token
  chat_id: "123"
evaluation:
  grace_minutes: 30
`), 0644))

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("GRACE_MINUTES", "45")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken, "env wins over file")
	assert.Equal(t, "123", cfg.Telegram.ChatID)
	assert.Equal(t, 45, cfg.Evaluation.GraceMinutes)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Error(t, cfg.Validate(), "telegram credentials are required")

	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "42"
	require.NoError(t, cfg.Validate())

	cfg.Bankroll.StakePercent = 150
	require.Error(t, cfg.Validate())
}
