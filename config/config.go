// Package config loads settings for the twitchchat CLI from an optional
// yaml file with environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved CLI settings.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Token    string `mapstructure:"token"`
	Channel  string `mapstructure:"channel"`
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the built-in settings: the public gateway on port 6667,
// info-level logging, and no identity.
func Default() Config {
	return Config{
		Host:     "irc.chat.twitch.tv",
		Port:     6667,
		LogLevel: "info",
	}
}

// Load builds configuration from defaults, an optional yaml file, and
// TWITCHIRC_* environment variables. Precedence: defaults < file < env.
//
// Parameters:
//   - path: Path to a yaml config file; "" skips file loading
//
// Returns:
//   - The resolved Config, or an error if the file could not be read, the
//     contents could not be decoded, or validation failed
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("username", cfg.Username)
	v.SetDefault("token", cfg.Token)
	v.SetDefault("channel", cfg.Channel)
	v.SetDefault("log_level", cfg.LogLevel)

	v.SetEnvPrefix("TWITCHIRC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the settings describe a usable session.
//
// Returns:
//   - An error naming the first invalid field, or nil
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}

	return nil
}
