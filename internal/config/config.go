package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Display  DisplayConfig  `mapstructure:"display"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig locates the bot's HTTP and push endpoints
type ServerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	StatePath      string        `mapstructure:"state_path"`
	WSPath         string        `mapstructure:"ws_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 0 = no timeout
}

// StreamConfig holds push-channel reconnect behavior
type StreamConfig struct {
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"`
}

// SyncConfig controls how pushed deltas merge into the snapshot
type SyncConfig struct {
	BotStateMerge string `mapstructure:"bot_state_merge"` // fields | replace
}

// DisplayConfig holds terminal view configuration
type DisplayConfig struct {
	Symbol      string `mapstructure:"symbol"`
	ClearScreen bool   `mapstructure:"clear_screen"`
	LogFile     string `mapstructure:"log_file"` // empty = stderr
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. A missing
// file is not an error when path is empty; defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// TRADEDASH_SERVER_BASE_URL overrides server.base_url
	v.SetEnvPrefix("TRADEDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.base_url", "http://127.0.0.1:5000")
	v.SetDefault("server.state_path", "/api/state")
	v.SetDefault("server.ws_path", "/ws")
	v.SetDefault("server.request_timeout", "0s")

	// Stream defaults
	v.SetDefault("stream.reconnect_delay", "2s")
	v.SetDefault("stream.max_reconnect_delay", "30s")

	v.SetDefault("sync.bot_state_merge", "fields")

	// Display defaults
	v.SetDefault("display.symbol", "BTC")
	v.SetDefault("display.clear_screen", true)
	v.SetDefault("display.log_file", "")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute http(s) URL")
	}
	if !strings.HasPrefix(c.Server.StatePath, "/") {
		return fmt.Errorf("server.state_path must start with /")
	}
	if !strings.HasPrefix(c.Server.WSPath, "/") {
		return fmt.Errorf("server.ws_path must start with /")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative")
	}

	// Validate Stream config
	if c.Stream.ReconnectDelay <= 0 {
		return fmt.Errorf("stream.reconnect_delay must be positive")
	}
	if c.Stream.MaxReconnectDelay < c.Stream.ReconnectDelay {
		return fmt.Errorf("stream.max_reconnect_delay must not be less than stream.reconnect_delay")
	}

	validMerges := map[string]bool{"fields": true, "replace": true}
	if !validMerges[c.Sync.BotStateMerge] {
		return fmt.Errorf("sync.bot_state_merge must be one of: fields, replace")
	}

	if c.Display.Symbol == "" {
		return fmt.Errorf("display.symbol is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
		if c.Telegram.RetryDelayBase < 0 {
			return fmt.Errorf("telegram.retry_delay_base must not be negative")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
