// Package transport abstracts the line-oriented stream a chat session talks
// through. The client package consumes the Transport interface; TCP is the
// production implementation. Tests substitute their own.
package transport

// Transport is a line-oriented stream to a chat gateway. Implementations
// block on ReadLine until a line arrives, the stream ends, or the transport
// is closed from another goroutine. End of stream is reported as io.EOF from
// ReadLine; every other failure is an error describing the cause.
type Transport interface {
	// Open establishes the stream to the given host and port. It must be
	// called before any read or write.
	//
	// Parameters:
	//   - host: The gateway host name or address
	//   - port: The gateway TCP port
	//
	// Returns:
	//   - An error if the stream could not be established
	Open(host string, port int) error

	// ReadLine blocks until one full line is available and returns it
	// without its terminator.
	//
	// Returns:
	//   - The line text, or io.EOF on clean end of stream, or another error
	//     on read failure
	ReadLine() (string, error)

	// WriteLine buffers one line for sending; the terminator is appended by
	// the transport. Call Flush to push buffered lines to the peer.
	//
	// Parameters:
	//   - line: The line text without terminator
	//
	// Returns:
	//   - An error if the write failed
	WriteLine(line string) error

	// Flush pushes all buffered outbound lines to the peer.
	//
	// Returns:
	//   - An error if the flush failed
	Flush() error

	// Close tears down the stream and unblocks any pending ReadLine. It is
	// safe to call from any goroutine and safe to call more than once;
	// afterwards the transport may be opened again.
	//
	// Returns:
	//   - An error if closing the underlying stream failed
	Close() error
}
