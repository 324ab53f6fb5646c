package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TWITCHIRC_USERNAME", "bob")
	t.Setenv("TWITCHIRC_TOKEN", "oauth:secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "irc.chat.twitch.tv", cfg.Host)
	assert.Equal(t, 6667, cfg.Port)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, "oauth:secret", cfg.Token)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
host: localhost
port: 16667
username: bob
token: oauth:secret
channel: general
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 16667, cfg.Port)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, "general", cfg.Channel)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
username: bob
token: oauth:from-file
`)
	t.Setenv("TWITCHIRC_TOKEN", "oauth:from-env")
	t.Setenv("TWITCHIRC_CHANNEL", "general")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "oauth:from-env", cfg.Token)
	assert.Equal(t, "general", cfg.Channel)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "missing username", contents: "token: oauth:secret\n"},
		{name: "missing token", contents: "username: bob\n"},
		{name: "port out of range", contents: "username: bob\ntoken: oauth:secret\nport: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.contents)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Username = "bob"
	cfg.Token = "oauth:secret"
	assert.NoError(t, cfg.Validate())

	cfg.Host = ""
	assert.Error(t, cfg.Validate())
}
