// Package parser turns raw Twitch IRC gateway lines into structured records.
//
// Parsing is a pure, stateless transform: one raw line in, one ParsedLine
// out. A line carrying a channel chat message yields the channel, sender,
// and message payload; anything else, including anything malformed, yields
// an unstructured record holding only the raw text.
package parser

import "strings"

// privmsgMarker and payloadMarker form the two-part signature of a channel
// chat message line. Both must be present, in this order, for a line to be
// treated as a chat message at all.
const (
	privmsgMarker = " PRIVMSG #"
	payloadMarker = " :"
)

// ParsedLine is the result of parsing one raw gateway line. Raw is always
// populated. Channel, User, and Message are populated together, and only
// when IsChannelMessage is true; a partially extracted record is never
// produced. A ParsedLine is immutable once returned and owned by the caller.
type ParsedLine struct {
	Raw              string
	IsChannelMessage bool
	Channel          string
	User             string
	Message          string
}

// Parse decomposes one raw gateway line.
//
// A line is a channel chat message when it contains " PRIVMSG #" followed by
// " :". The channel is the text between '#' and the next space, the sender
// is the text between the leading ':' and the '!' that follows it, and the
// message is everything after the " :" that follows the channel. A line that
// matches the coarse signature but is malformed in any sub-field (no leading
// ':', no '!', empty channel or sender, truncated tail) degrades to a
// non-message record with all optional fields empty rather than a partial
// extraction. A structurally odd line is safer left unparsed than
// misinterpreted.
//
// Parameters:
//   - raw: The raw line as read from the gateway, without line terminator
//
// Returns:
//   - A ParsedLine; never an error, malformed input degrades instead
func Parse(raw string) ParsedLine {
	line := ParsedLine{Raw: raw}

	markerIdx := strings.Index(raw, privmsgMarker)
	if markerIdx == -1 {
		return line
	}

	rest := raw[markerIdx+len(privmsgMarker):]
	spaceIdx := strings.IndexByte(rest, ' ')
	if spaceIdx <= 0 || !strings.HasPrefix(rest[spaceIdx:], payloadMarker) {
		return line
	}

	prefix := raw[:markerIdx]
	if !strings.HasPrefix(prefix, ":") {
		return line
	}

	bangIdx := strings.IndexByte(prefix, '!')
	if bangIdx <= 1 {
		return line
	}

	line.IsChannelMessage = true
	line.Channel = rest[:spaceIdx]
	line.User = prefix[1:bangIdx]
	line.Message = rest[spaceIdx+len(payloadMarker):]

	return line
}
