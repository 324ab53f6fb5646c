// Package client implements a session-oriented client for Twitch's
// IRC-compatible chat gateway over a persistent TCP connection. It
// authenticates, joins and leaves channels, sends and receives chat lines,
// and notifies registered handlers of state transitions and received
// messages. Register handlers with OnStateChange and OnMessage, then call
// Connect to start.
package client

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cyberinferno/twitchirc/channelset"
	"github.com/cyberinferno/twitchirc/history"
	"github.com/cyberinferno/twitchirc/parser"
	"github.com/cyberinferno/twitchirc/transport"
)

// Sentinel errors returned by session operations. Operation errors wrap
// these; test with errors.Is.
var (
	ErrClosed        = errors.New("client is closed")
	ErrAlreadyActive = errors.New("already connected or connecting")
	ErrAlreadyJoined = errors.New("channel already joined")
	ErrNotJoined     = errors.New("channel not joined")
)

// Config holds connection settings for the chat client.
type Config struct {
	// Host is the gateway host to connect to.
	Host string
	// Port is the gateway TCP port.
	Port int
	// Username is the login identity. Control-line matching uses it
	// verbatim; the gateway expects it lowercase.
	Username string
	// Token is the credential sent in the PASS line (e.g. "oauth:...").
	Token string
	// Channel, when non-empty, is joined as part of Connect.
	Channel string
	// DialTimeout is the max duration for establishing the connection;
	// zero means transport.DefaultDialTimeout.
	DialTimeout time.Duration
	// Logger receives session lifecycle logs; defaults to zerolog.Nop().
	Logger zerolog.Logger
	// History, when non-nil, records each received channel chat message.
	History *history.History
	// Transport overrides the stream implementation; defaults to a TCP
	// transport built from Host, Port, and DialTimeout.
	Transport transport.Transport
}

// DefaultConfig returns a Config pointed at the public gateway with the
// given identity. Override fields as needed before passing to New.
//
// Parameters:
//   - username: The login identity
//   - token: The credential for the PASS line
//
// Returns:
//   - A Config with defaults: irc.chat.twitch.tv:6667, DialTimeout 10s,
//     no initial channel, no-op logger
func DefaultConfig(username, token string) Config {
	return Config{
		Host:        "irc.chat.twitch.tv",
		Port:        6667,
		Username:    username,
		Token:       token,
		DialTimeout: transport.DefaultDialTimeout,
		Logger:      zerolog.Nop(),
	}
}

// Client is a single chat session: one transport, one read loop, one set of
// joined channels. Commands (JoinRoom, LeaveRoom, SendRaw, SendChatMessage)
// may be called from any goroutine, but callers must serialize overlapping
// write-triggering calls externally; the client takes no write lock beyond
// the transport's own. A failed session stays down until a fresh Connect.
type Client struct {
	config Config
	tr     transport.Transport
	log    zerolog.Logger

	mu          sync.Mutex
	connecting  bool
	connected   bool
	closed      bool
	lastChannel string
	channels    *channelset.Set

	handlerMu       sync.RWMutex
	stateHandlers   []StateChangeHandler
	messageHandlers []MessageHandler

	wg sync.WaitGroup
}

// New creates a chat client from the given config. The client starts
// disconnected; call Connect to open the session and Close when done.
//
// Parameters:
//   - config: Connection settings (e.g. from DefaultConfig)
//
// Returns:
//   - A new *Client ready to use
func New(config Config) *Client {
	tr := config.Transport
	if tr == nil {
		tr = transport.NewTCP(config.DialTimeout, config.Logger)
	}

	return &Client{
		config:   config,
		tr:       tr,
		log:      config.Logger.With().Str("component", "twitchirc").Logger(),
		channels: channelset.New(),
	}
}

// OnStateChange registers a state-change handler. Handlers accumulate and
// are invoked in registration order.
//
// Parameters:
//   - handler: Function called on each state transition
func (c *Client) OnStateChange(handler StateChangeHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.stateHandlers = append(c.stateHandlers, handler)
}

// OnMessage registers a received-message handler. Handlers accumulate and
// are invoked in registration order.
//
// Parameters:
//   - handler: Function called for each received channel chat message
func (c *Client) OnMessage(handler MessageHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.messageHandlers = append(c.messageHandlers, handler)
}

// Connect opens the transport, logs in, joins the configured channel if one
// was given, and starts the read loop. Membership from a previous session is
// discarded first. A failure before login began emits Disconnected; a
// failure after that, but before the welcome banner, emits FailedConnection.
// Either way the session is unusable until another Connect. Connect must not
// overlap with Close or another Connect, and must not be called from a
// handler, which runs on the read loop Connect waits for.
//
// Returns:
//   - nil on success; ErrClosed, ErrAlreadyActive, or the transport error
//     otherwise
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.connected || c.connecting {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.lastChannel = ""
	c.channels.Reset()
	c.mu.Unlock()

	// A previous session's read loop may still be draining its closed
	// stream. Its exit is guaranteed, but until then it would treat the new
	// session's flags and transport as its own, so wait it out before
	// touching either.
	c.wg.Wait()

	if err := c.tr.Open(c.config.Host, c.config.Port); err != nil {
		c.log.Error().Err(err).Str("host", c.config.Host).Int("port", c.config.Port).Msg("transport open failed")
		c.emitState(StateDisconnected, "")
		return fmt.Errorf("open transport: %w", err)
	}

	c.mu.Lock()
	c.connecting = true
	c.mu.Unlock()
	c.emitState(StateConnecting, "")

	if err := c.writeLine(passLine(c.config.Token)); err != nil {
		return c.failLogin("send credential", err)
	}
	if err := c.writeLine(nickLine(c.config.Username)); err != nil {
		return c.failLogin("send identity", err)
	}

	if channel := strings.ToLower(strings.TrimSpace(c.config.Channel)); channel != "" {
		if err := c.writeLine(joinLine(channel)); err != nil {
			return c.failLogin("join initial channel", err)
		}

		c.mu.Lock()
		c.lastChannel = channel
		c.channels.Add(channel)
		c.mu.Unlock()
		c.emitState(StateChannelJoining, channel)
	}

	c.wg.Add(1)
	go c.readLoop()

	c.log.Info().Str("username", c.config.Username).Msg("session started")
	return nil
}

// JoinRoom joins a channel. The name is normalized to lowercase; joining a
// channel the session is already a member of fails without any write or
// state change. With leavePrevious set, every currently-joined channel is
// left first, in join order. A transport failure tears the session down and
// emits Disconnected.
//
// Parameters:
//   - name: The channel name, without '#'
//   - leavePrevious: Leave all joined channels before joining
//
// Returns:
//   - nil on success; ErrClosed, ErrAlreadyJoined, or the transport error
//     otherwise
func (c *Client) JoinRoom(name string, leavePrevious bool) error {
	channel := strings.ToLower(strings.TrimSpace(name))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.channels.Contains(channel) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyJoined, channel)
	}
	c.mu.Unlock()

	if leavePrevious {
		for _, joined := range c.Channels() {
			if err := c.LeaveRoom(joined); err != nil {
				return err
			}
		}
	}

	if err := c.writeLine(joinLine(channel)); err != nil {
		c.forceDisconnect("join", err)
		return fmt.Errorf("join %s: %w", channel, err)
	}

	c.mu.Lock()
	c.lastChannel = channel
	c.channels.Add(channel)
	c.mu.Unlock()
	c.emitState(StateChannelJoining, channel)

	return nil
}

// LeaveRoom leaves a channel. The name is normalized to lowercase; leaving a
// channel the session is not a member of fails without any write or state
// change. A transport failure tears the session down and emits Disconnected.
//
// Parameters:
//   - name: The channel name, without '#'
//
// Returns:
//   - nil on success; ErrClosed, ErrNotJoined, or the transport error
//     otherwise
func (c *Client) LeaveRoom(name string) error {
	channel := strings.ToLower(strings.TrimSpace(name))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.channels.Contains(channel) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotJoined, channel)
	}
	c.mu.Unlock()

	if err := c.writeLine(partLine(channel)); err != nil {
		c.forceDisconnect("part", err)
		return fmt.Errorf("part %s: %w", channel, err)
	}

	c.mu.Lock()
	c.channels.Remove(channel)
	c.mu.Unlock()
	c.emitState(StateChannelLeaving, channel)

	return nil
}

// SendRaw writes one line verbatim to the gateway. A transport failure tears
// the session down and emits Disconnected.
//
// Parameters:
//   - line: The line to send, without terminator
//
// Returns:
//   - nil on success; ErrClosed or the transport error otherwise
func (c *Client) SendRaw(line string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	if err := c.writeLine(line); err != nil {
		c.forceDisconnect("send", err)
		return fmt.Errorf("send raw: %w", err)
	}

	return nil
}

// SendChatMessage sends a chat message to a joined channel. Sending to a
// channel the session is not a member of fails without any write.
//
// Parameters:
//   - channel: The target channel name, without '#'
//   - text: The message payload
//
// Returns:
//   - nil on success; ErrClosed, ErrNotJoined, or the transport error
//     otherwise
func (c *Client) SendChatMessage(channel, text string) error {
	channel = strings.ToLower(strings.TrimSpace(channel))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.channels.Contains(channel) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotJoined, channel)
	}
	c.mu.Unlock()

	if err := c.writeLine(privmsgLine(c.config.Username, channel, text)); err != nil {
		c.forceDisconnect("send message", err)
		return fmt.Errorf("send message to %s: %w", channel, err)
	}

	return nil
}

// Close shuts the session down: it releases the transport, which makes the
// read loop observe the closed stream and exit, and clears the session
// flags. After Close the client must not be used further. Idempotent;
// repeated calls return nil and do nothing. Must not be called from a
// handler, which runs on the read loop it would wait for.
//
// Returns:
//   - nil
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connecting = false
	c.connected = false
	c.mu.Unlock()

	_ = c.tr.Close()
	c.wg.Wait()

	c.log.Info().Msg("session closed")
	return nil
}

// IsConnected reports whether the welcome banner has been received and the
// session is usable. Callers must check this rather than any intermediate
// connecting signal.
//
// Returns:
//   - true if the session is connected
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Channels returns the currently-joined channel names in join order.
//
// Returns:
//   - A copy of the membership set, oldest join first
func (c *Client) Channels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels.Names()
}

// LastChannel returns the most recently joined channel name, or "" if no
// join has happened this session.
//
// Returns:
//   - The last-joined channel name
func (c *Client) LastChannel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastChannel
}

// writeLine sends one line and flushes it.
func (c *Client) writeLine(line string) error {
	if err := c.tr.WriteLine(line); err != nil {
		return err
	}

	return c.tr.Flush()
}

// failLogin handles a write failure during Connect after the connecting flag
// was raised: the session never reached connected, so this is a failed
// connection, not a disconnect.
func (c *Client) failLogin(step string, err error) error {
	c.log.Error().Err(err).Str("step", step).Msg("login failed")

	c.mu.Lock()
	c.connecting = false
	c.connected = false
	c.mu.Unlock()

	_ = c.tr.Close()
	c.emitState(StateFailedConnection, "")

	return fmt.Errorf("%s: %w", step, err)
}

// forceDisconnect handles a mid-session write failure: local state resets to
// disconnected and Disconnected is emitted. The operation's error still goes
// back to its caller.
func (c *Client) forceDisconnect(op string, err error) {
	c.log.Error().Err(err).Str("op", op).Msg("write failed, session down")

	c.mu.Lock()
	c.connecting = false
	c.connected = false
	c.mu.Unlock()

	// Releasing the transport here lets the read loop exit and a later
	// Connect start from a fresh stream.
	_ = c.tr.Close()
	c.emitState(StateDisconnected, "")
}

// readLoop runs on its own goroutine for the lifetime of the session and is
// the only reader of the transport. All incoming state transitions are
// detected here, so their notifications are emitted in arrival order.
func (c *Client) readLoop() {
	defer c.wg.Done()

	for {
		line, err := c.tr.ReadLine()
		if err != nil {
			c.handleReadFailure(err)
			return
		}

		c.handleLine(line)
	}
}

// handleReadFailure converts a read error or end of stream into the
// session-ending transition: FailedConnection if the welcome banner never
// arrived, Disconnected otherwise. A read failure caused by Close, or one
// following a write failure that already reset the session, emits nothing.
func (c *Client) handleReadFailure(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	wasConnecting := c.connecting
	wasConnected := c.connected
	c.connecting = false
	c.connected = false
	c.mu.Unlock()

	_ = c.tr.Close()

	switch {
	case wasConnecting && !wasConnected:
		c.log.Warn().Err(err).Msg("stream ended before login completed")
		c.emitState(StateFailedConnection, "")
	case wasConnected:
		c.log.Warn().Err(err).Msg("stream ended")
		c.emitState(StateDisconnected, "")
	}
}

// handleLine dispatches one incoming line. The three control lines are
// matched by exact text, in priority order; a mismatch produces no
// transition rather than a best-effort partial match. Lines that match no
// control template and carry a channel chat message are forwarded to the
// message handlers.
func (c *Client) handleLine(raw string) {
	c.mu.Lock()
	alreadyConnected := c.connected
	lastChannel := c.lastChannel
	c.mu.Unlock()

	switch {
	case raw == welcomeLine(c.config.Username):
		if alreadyConnected {
			return
		}

		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		c.log.Info().Msg("welcome banner received")
		c.emitState(StateConnected, "")
		return

	case raw == pingLine:
		if err := c.writeLine(pongLine); err != nil {
			c.forceDisconnect("pong", err)
		}
		return

	case lastChannel != "" && raw == namesLine(c.config.Username, lastChannel):
		c.emitState(StateChannelJoined, lastChannel)
		return
	}

	line := parser.Parse(raw)
	if !line.IsChannelMessage {
		return
	}

	if c.config.History != nil {
		c.config.History.Append(line.Channel, line)
	}

	c.emitMessage(line)
}

// emitState invokes the state-change handlers synchronously, in
// registration order, on the calling goroutine.
func (c *Client) emitState(state State, channel string) {
	c.handlerMu.RLock()
	handlers := make([]StateChangeHandler, len(c.stateHandlers))
	copy(handlers, c.stateHandlers)
	c.handlerMu.RUnlock()

	event := StateChangeEvent{
		State:     state,
		Channel:   channel,
		Timestamp: time.Now(),
	}

	c.log.Debug().Stringer("state", state).Str("channel", channel).Msg("state change")
	for _, handler := range handlers {
		handler(event)
	}
}

// emitMessage invokes the message handlers synchronously, in registration
// order, on the read-loop goroutine.
func (c *Client) emitMessage(line parser.ParsedLine) {
	c.handlerMu.RLock()
	handlers := make([]MessageHandler, len(c.messageHandlers))
	copy(handlers, c.messageHandlers)
	c.handlerMu.RUnlock()

	event := MessageEvent{
		Line:      line,
		Timestamp: time.Now(),
	}

	for _, handler := range handlers {
		handler(event)
	}
}
