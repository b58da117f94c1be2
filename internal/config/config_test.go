package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, "sqlite3", cfg.DBType)
	assert.Equal(t, "data/tutorbot.db", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.ReminderHour)
	assert.Equal(t, 9, cfg.KeywordsPerPage)
	assert.Equal(t, 3, cfg.KeywordsPerRow)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tutorbot")
	t.Setenv("REMINDER_HOUR", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "postgres://localhost/tutorbot", cfg.DatabaseURL)
	assert.Equal(t, 8, cfg.ReminderHour)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TelegramToken")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_TYPE", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBType")
}

func TestLoadRejectsBadReminderHour(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMINDER_HOUR", "24")

	_, err := Load()
	assert.Error(t, err)
}
