package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_ChannelMessages(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		channel string
		user    string
		message string
	}{
		{
			name:    "simple message",
			raw:     ":bob!bob@bob.tmi.twitch.tv PRIVMSG #general :hello there",
			channel: "general",
			user:    "bob",
			message: "hello there",
		},
		{
			name:    "payload containing the separator",
			raw:     ":alice!alice@alice.tmi.twitch.tv PRIVMSG #games :score is 3 : 2 today",
			channel: "games",
			user:    "alice",
			message: "score is 3 : 2 today",
		},
		{
			name:    "empty payload",
			raw:     ":bob!bob@bob.tmi.twitch.tv PRIVMSG #general :",
			channel: "general",
			user:    "bob",
			message: "",
		},
		{
			name:    "payload that looks like a command",
			raw:     ":eve!eve@eve.tmi.twitch.tv PRIVMSG #ops :JOIN #other",
			channel: "ops",
			user:    "eve",
			message: "JOIN #other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Parse(tt.raw)
			assert.Equal(t, tt.raw, line.Raw)
			assert.True(t, line.IsChannelMessage)
			assert.Equal(t, tt.channel, line.Channel)
			assert.Equal(t, tt.user, line.User)
			assert.Equal(t, tt.message, line.Message)
		})
	}
}

func TestParse_NonMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty line", raw: ""},
		{name: "keep-alive ping", raw: "PING :tmi.twitch.tv"},
		{name: "welcome banner", raw: ":tmi.twitch.tv 001 bob :Welcome, GLHF!"},
		{name: "names banner", raw: ":bob.tmi.twitch.tv 353 bob = #general :bob"},
		{name: "plain text", raw: "just some text"},
		{name: "privmsg without channel marker", raw: ":bob!bob@x PRIVMSG general :hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Parse(tt.raw)
			assert.Equal(t, tt.raw, line.Raw)
			assert.False(t, line.IsChannelMessage)
			assert.Empty(t, line.Channel)
			assert.Empty(t, line.User)
			assert.Empty(t, line.Message)
		})
	}
}

// Lines that match the coarse signature but break the fine structure must
// degrade as a whole; a partial record is never produced.
func TestParse_MalformedDegradesCompletely(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no leading colon", raw: "bob!bob@bob.tmi.twitch.tv PRIVMSG #general :hi"},
		{name: "no bang in prefix", raw: ":bob PRIVMSG #general :hi"},
		{name: "empty sender", raw: ":!bob@x PRIVMSG #general :hi"},
		{name: "empty channel", raw: ":bob!bob@x PRIVMSG # :hi"},
		{name: "channel with embedded space", raw: ":bob!bob@x PRIVMSG #gen eral :hi"},
		{name: "truncated after channel", raw: ":bob!bob@x PRIVMSG #general"},
		{name: "signature at end of line", raw: ":bob!bob@x PRIVMSG #"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Parse(tt.raw)
			assert.Equal(t, tt.raw, line.Raw)
			assert.False(t, line.IsChannelMessage)
			assert.Empty(t, line.Channel)
			assert.Empty(t, line.User)
			assert.Empty(t, line.Message)
		})
	}
}
