package client

// State represents the session's position in the connection and channel
// membership lifecycle.
type State int

const (
	StateFailedConnection State = iota // Connection attempt failed before login completed
	StateDisconnected                  // Not connected; a previous session may have ended
	StateConnecting                    // Transport open, login in progress
	StateConnected                     // Welcome banner received, session usable
	StateChannelJoining                // Join command sent, confirmation pending
	StateChannelJoined                 // Membership confirmed by the gateway
	StateChannelLeaving                // Part command sent
	StateChannelLeft                   // Reserved; the gateway sends no part confirmation
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateFailedConnection:
		return "FailedConnection"
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateChannelJoining:
		return "ChannelJoining"
	case StateChannelJoined:
		return "ChannelJoined"
	case StateChannelLeaving:
		return "ChannelLeaving"
	case StateChannelLeft:
		return "ChannelLeft"
	default:
		return "Unknown"
	}
}
