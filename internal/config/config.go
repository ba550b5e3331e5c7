// Package config loads and validates application configuration from
// config.yaml, BOT_* environment variables, and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config holds the configuration for all application components.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Vox       VoxConfig       `mapstructure:"vox"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot transport settings. BotInfo is populated at
// startup from GetMe and is not read from the config file.
type TelegramConfig struct {
	Token          string        `mapstructure:"token"           validate:"required"`
	AdminUserID    int64         `mapstructure:"admin_user_id"   validate:"required,gt=0"`
	BroadcastDelay time.Duration `mapstructure:"broadcast_delay" validate:"min=0,max=5m"`

	BotInfo *models.User `mapstructure:"-"`
}

// VoxConfig holds credentials and limits for the analytics service client.
type VoxConfig struct {
	Token   string        `mapstructure:"token"    validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=1m"`
}

// GeminiConfig holds settings for the language-model fallback client.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"     validate:"required"`
	ModelName         string        `mapstructure:"model"       validate:"required"`
	Temperature       float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	SystemInstruction string        `mapstructure:"system_instruction"`
	Timeout           time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// DatabaseConfig holds the SQLite storage location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration in precedence order: defaults, config.yaml, then
// BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN). A missing config
// file is fine; missing required values are not.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults plus environment variables.
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", true)

	// Secrets default to empty so their environment variables are visible to
	// Unmarshal; validation rejects them when left unset.
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.admin_user_id", 0)
	viper.SetDefault("telegram.broadcast_delay", 10*time.Second)

	viper.SetDefault("vox.token", "")
	viper.SetDefault("vox.base_url", "https://api.vox-lab.com")
	viper.SetDefault("vox.timeout", 10*time.Second)

	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.temperature", 0.8)
	viper.SetDefault("gemini.timeout", 60*time.Second)

	viper.SetDefault("database.path", "storage.db")

	viper.SetDefault("scheduler.tasks.weekly_prediction.enabled", false)
	viper.SetDefault("scheduler.tasks.weekly_prediction.schedule", "0 10 * * 1")
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
}
