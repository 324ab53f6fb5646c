package client

import (
	"io"
	"sync"
	"time"
)

// fakeTransport is a scripted Transport for session tests. Lines queued with
// deliver are handed to the read loop in order; end simulates a clean end of
// stream; setWriteErr makes subsequent writes fail.
type fakeTransport struct {
	mu           sync.Mutex
	writes       []string
	openErr      error
	writeErr     error
	readEndDelay time.Duration
	closeN       int

	lines chan string
	done  chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		lines: make(chan string, 32),
		done:  make(chan struct{}),
	}
}

func (f *fakeTransport) Open(host string, port int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}

	// A fresh Open after a failed or closed session gets fresh channels,
	// like a real transport gets a fresh stream.
	f.lines = make(chan string, 32)
	f.done = make(chan struct{})
	return nil
}

func (f *fakeTransport) ReadLine() (string, error) {
	f.mu.Lock()
	lines, done := f.lines, f.done
	delay := f.readEndDelay
	f.mu.Unlock()

	select {
	case line, ok := <-lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-done:
		// An optional lag between Close and the reader observing it, like
		// a real socket whose read error surfaces late.
		time.Sleep(delay)
		return "", io.EOF
	}
}

func (f *fakeTransport) WriteLine(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}

	f.writes = append(f.writes, line)
	return nil
}

func (f *fakeTransport) Flush() error {
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeN++

	select {
	case <-f.done:
	default:
		close(f.done)
	}

	return nil
}

func (f *fakeTransport) deliver(line string) {
	f.mu.Lock()
	lines := f.lines
	f.mu.Unlock()
	lines <- line
}

func (f *fakeTransport) end() {
	f.mu.Lock()
	lines := f.lines
	f.mu.Unlock()
	close(lines)
}

func (f *fakeTransport) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeTransport) setReadEndDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readEndDelay = d
}

func (f *fakeTransport) sentLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeTransport) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeN
}

// stateRecorder collects state-change events from any goroutine.
type stateRecorder struct {
	mu     sync.Mutex
	events []StateChangeEvent
}

func (r *stateRecorder) handler() StateChangeHandler {
	return func(event StateChangeEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
	}
}

func (r *stateRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.events))
	for i, e := range r.events {
		out[i] = e.State
	}
	return out
}

func (r *stateRecorder) count(state State) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.State == state {
			n++
		}
	}
	return n
}

func (r *stateRecorder) lastChannelFor(state State) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].State == state {
			return r.events[i].Channel
		}
	}
	return ""
}

// messageRecorder collects message events from the read loop.
type messageRecorder struct {
	mu     sync.Mutex
	events []MessageEvent
}

func (r *messageRecorder) handler() MessageHandler {
	return func(event MessageEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
	}
}

func (r *messageRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *messageRecorder) last() (MessageEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return MessageEvent{}, false
	}
	return r.events[len(r.events)-1], true
}
