package client

import (
	"time"

	"github.com/cyberinferno/twitchirc/parser"
)

// StateChangeEvent is delivered to state-change handlers whenever the
// session transitions. Channel is set for channel-scoped states
// (ChannelJoining, ChannelJoined, ChannelLeaving) and empty otherwise.
type StateChangeEvent struct {
	State     State
	Channel   string
	Timestamp time.Time
}

// MessageEvent is delivered to message handlers for each channel chat
// message the read loop receives.
type MessageEvent struct {
	Line      parser.ParsedLine
	Timestamp time.Time
}

// StateChangeHandler is called on each state transition. Handlers run
// synchronously, in registration order, on the goroutine that detected the
// transition (the read loop for incoming events, the calling goroutine for
// command failures); they must not block for long.
type StateChangeHandler func(event StateChangeEvent)

// MessageHandler is called for each received channel chat message, under the
// same invocation rules as StateChangeHandler.
type MessageHandler func(event MessageEvent)
