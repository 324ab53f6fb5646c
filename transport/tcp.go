package transport

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDialTimeout is used by NewTCP when the given dial timeout is zero.
const DefaultDialTimeout = 10 * time.Second

// TCP is the net.Conn-backed Transport. Lines are CRLF-framed: terminators
// are stripped on read and appended on write. Writes are buffered until
// Flush. One goroutine may read while another writes; Close may be called
// from any goroutine, is idempotent, and leaves the transport ready for a
// fresh Open.
type TCP struct {
	dialTimeout time.Duration
	log         zerolog.Logger

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// NewTCP creates a TCP transport that is not yet connected; call Open to
// establish the stream.
//
// Parameters:
//   - dialTimeout: Max duration for establishing the connection; zero means
//     DefaultDialTimeout
//   - log: Logger for connection lifecycle events; use zerolog.Nop() to
//     silence it
//
// Returns:
//   - A new *TCP ready for Open
func NewTCP(dialTimeout time.Duration, log zerolog.Logger) *TCP {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	return &TCP{
		dialTimeout: dialTimeout,
		log:         log,
	}
}

// Open implements Transport. It dials the gateway over TCP and sets up
// buffered line I/O. Opening an already-open transport is an error; a closed
// transport may be opened again.
func (t *TCP) Open(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return fmt.Errorf("transport already open")
	}

	dialer := net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	t.conn = conn
	t.reader = bufio.NewReader(conn)
	t.writer = bufio.NewWriter(conn)
	t.log.Debug().Str("addr", addr).Msg("transport open")

	return nil
}

// ReadLine implements Transport. It blocks on the connection until a full
// line arrives and returns it without its CR/LF terminator. A final line cut
// short by end of stream is returned as-is; the error surfaces on the next
// call.
func (t *TCP) ReadLine() (string, error) {
	t.mu.Lock()
	reader := t.reader
	t.mu.Unlock()

	if reader == nil {
		return "", fmt.Errorf("transport not open")
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		// A stream that ends without a final terminator still carries the
		// last line in the partial read; hand it over before the error.
		if len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine implements Transport. The CRLF terminator is appended here; the
// line stays in the write buffer until Flush.
func (t *TCP) WriteLine(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer == nil {
		return fmt.Errorf("transport not open")
	}

	if _, err := t.writer.WriteString(line + "\r\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}

	return nil
}

// Flush implements Transport.
func (t *TCP) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer == nil {
		return fmt.Errorf("transport not open")
	}

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

// Close implements Transport. Closing the connection unblocks a pending
// ReadLine in another goroutine. Closing an unopened transport is a no-op.
func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil
	t.reader = nil
	t.writer = nil
	t.log.Debug().Msg("transport closed")

	return err
}
