package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/example/tutorbot/internal/database"
)

// Config holds all application configuration, populated from environment
// variables.
type Config struct {
	// TelegramToken authenticates the bot against the Telegram API.
	TelegramToken string `mapstructure:"telegram_bot_token" validate:"required"`

	// OpenAIAPIKey authenticates the tutor's language model calls.
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required"`
	// OpenAIModel is the chat model used by every extractor.
	OpenAIModel string `mapstructure:"openai_model" validate:"required"`
	// Temperature for model sampling.
	Temperature float64 `mapstructure:"openai_temperature" validate:"gte=0,lte=2"`

	// DBType selects the database driver.
	DBType string `mapstructure:"db_type" validate:"oneof=sqlite3 postgres"`
	// DatabaseURL is the sqlite file path or the postgres connection URL.
	DatabaseURL string `mapstructure:"database_url" validate:"required"`

	// ReminderHour is the local hour of day for the daily vocab reminder.
	ReminderHour int `mapstructure:"reminder_hour" validate:"gte=0,lte=23"`

	// KeywordsPerPage and KeywordsPerRow shape the keyword keyboard.
	KeywordsPerPage int `mapstructure:"keywords_per_page" validate:"gt=0"`
	KeywordsPerRow  int `mapstructure:"keywords_per_row" validate:"gt=0"`
}

// envKeys maps every config key to the environment variable it reads from.
var envKeys = map[string]string{
	"telegram_bot_token": "TELEGRAM_BOT_TOKEN",
	"openai_api_key":     "OPENAI_API_KEY",
	"openai_model":       "OPENAI_MODEL",
	"openai_temperature": "OPENAI_TEMPERATURE",
	"db_type":            "DB_TYPE",
	"database_url":       "DATABASE_URL",
	"reminder_hour":      "REMINDER_HOUR",
	"keywords_per_page":  "KEYWORDS_PER_PAGE",
	"keywords_per_row":   "KEYWORDS_PER_ROW",
}

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_temperature", 0.7)
	v.SetDefault("db_type", database.DriverSQLite)
	v.SetDefault("database_url", database.DefaultSQLitePath)
	v.SetDefault("reminder_hour", 10)
	v.SetDefault("keywords_per_page", 9)
	v.SetDefault("keywords_per_row", 3)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field()
			}
			return nil, fmt.Errorf("invalid config, check fields: %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}
	return &cfg, nil
}
