package client

import "fmt"

// Fixed control lines of the gateway. The keep-alive pair is matched and
// produced verbatim.
const (
	pingLine = "PING :tmi.twitch.tv"
	pongLine = "PONG :tmi.twitch.tv"
)

func passLine(token string) string {
	return "PASS " + token
}

func nickLine(username string) string {
	return "NICK " + username
}

func joinLine(channel string) string {
	return "JOIN #" + channel
}

func partLine(channel string) string {
	return "PART #" + channel
}

// privmsgLine builds the self-addressed chat command the gateway expects for
// outbound messages.
func privmsgLine(username, channel, text string) string {
	return fmt.Sprintf(":%s!%s@%s.tmi.twitch.tv PRIVMSG #%s :%s", username, username, username, channel, text)
}

// welcomeLine is the login banner the gateway sends once authentication
// succeeded. Matched by exact text; a casing mismatch on the username
// deliberately produces no transition.
func welcomeLine(username string) string {
	return fmt.Sprintf(":tmi.twitch.tv 001 %s :Welcome, GLHF!", username)
}

// namesLine is the membership confirmation banner naming this identity and
// the joined channel. Matched by exact text.
func namesLine(username, channel string) string {
	return fmt.Sprintf(":%s.tmi.twitch.tv 353 %s = #%s :%s", username, username, channel, username)
}
