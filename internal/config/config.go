package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	LogLevel  string
	LogFormat string

	// Discord webhook targets: one general reminder channel and one
	// admin-alert channel.
	ReminderWebhookURL string
	AdminWebhookURL    string
	WebhookTimeout     time.Duration

	// Auto-reminder settings consumed by the scheduler tick.
	ReminderWindow time.Duration
	TickInterval   time.Duration
}

// Load reads configuration from environment variables, an optional config
// file, and built-in defaults, in that order of precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "3306")
	v.SetDefault("db_user", "taskboard")
	v.SetDefault("db_password", "taskboard")
	v.SetDefault("db_name", "taskboard")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("session_secret", "default-secret-key-change-me")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("reminder_webhook_url", "")
	v.SetDefault("admin_webhook_url", "")
	v.SetDefault("webhook_timeout", "10s")
	v.SetDefault("reminder_window", "24h")
	v.SetDefault("tick_interval", "1h")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env and defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		RedisHost:          v.GetString("redis_host"),
		RedisPort:          v.GetString("redis_port"),
		SessionSecret:      v.GetString("session_secret"),
		GinMode:            v.GetString("gin_mode"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		ReminderWebhookURL: v.GetString("reminder_webhook_url"),
		AdminWebhookURL:    v.GetString("admin_webhook_url"),
		WebhookTimeout:     v.GetDuration("webhook_timeout"),
		ReminderWindow:     v.GetDuration("reminder_window"),
		TickInterval:       v.GetDuration("tick_interval"),
	}, nil
}
