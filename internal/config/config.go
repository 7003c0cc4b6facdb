// Package config builds explicit configuration values from the environment
// once at startup; nothing else in the process reads env vars directly.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Watch holds everything the watch command needs.
type Watch struct {
	Twitter  TwitterConfig
	Telegram TelegramConfig
	State    StateConfig
	Log      LogConfig
}

type TwitterConfig struct {
	BearerToken string `envconfig:"TWITTER_BEARER_TOKEN" required:"true"`
	Username    string `envconfig:"TWITTER_USERNAME" default:"CosineAI"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	ChatID   string `envconfig:"TELEGRAM_CHAT_ID" required:"true"`
}

type StateConfig struct {
	Path string `envconfig:"STATE_PATH" default:"state/last_seen.json"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Serve holds everything the serve command needs.
type Serve struct {
	Server ServerConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port   string `envconfig:"PORT" default:"8000"`
	DBPath string `envconfig:"TODO_DB_PATH" default:"state/todos.db"`
}

// LoadWatch reads the watch configuration from the environment.
func LoadWatch() (Watch, error) {
	var cfg Watch
	if err := envconfig.Process("", &cfg); err != nil {
		return Watch{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}

// LoadServe reads the serve configuration from the environment.
func LoadServe() (Serve, error) {
	var cfg Serve
	if err := envconfig.Process("", &cfg); err != nil {
		return Serve{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}
