// Package history keeps a short-lived, per-channel buffer of received chat
// messages. Buffers live in a TTL cache keyed by lowercase channel name, so
// a channel that goes quiet for the configured TTL drops out on its own.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/cyberinferno/twitchirc/parser"
)

// DefaultPerChannelLimit caps a channel's buffer when no explicit limit is
// given to New.
const DefaultPerChannelLimit = 50

// History stores the most recent chat messages per channel. Appends beyond
// the per-channel limit evict the oldest entries. Safe for concurrent use.
type History struct {
	store *cache.Cache
	limit int
	mu    sync.Mutex
}

// New creates a History.
//
// Parameters:
//   - ttl: How long a channel's buffer survives without a new message
//     (use cache.NoExpiration to keep buffers forever)
//   - cleanupInterval: Interval at which expired buffers are removed
//   - perChannelLimit: Max messages kept per channel; values <= 0 mean
//     DefaultPerChannelLimit
//
// Returns:
//   - A new *History instance
func New(ttl, cleanupInterval time.Duration, perChannelLimit int) *History {
	if perChannelLimit <= 0 {
		perChannelLimit = DefaultPerChannelLimit
	}

	return &History{
		store: cache.New(ttl, cleanupInterval),
		limit: perChannelLimit,
	}
}

// Append records one message for a channel, evicting the oldest entry when
// the per-channel limit is exceeded. The append refreshes the channel
// buffer's TTL.
//
// Parameters:
//   - channel: The channel name; normalized to lowercase
//   - line: The parsed message to record
func (h *History) Append(channel string, line parser.ParsedLine) {
	key := strings.ToLower(channel)

	h.mu.Lock()
	defer h.mu.Unlock()

	lines := h.bufferLocked(key)
	lines = append(lines, line)
	if len(lines) > h.limit {
		lines = lines[len(lines)-h.limit:]
	}

	h.store.Set(key, lines, cache.DefaultExpiration)
}

// Recent returns a channel's buffered messages, oldest first. The returned
// slice is a copy and may be modified freely by the caller.
//
// Parameters:
//   - channel: The channel name; normalized to lowercase
//
// Returns:
//   - Up to the per-channel limit of messages, oldest first; empty if the
//     channel has no buffer
func (h *History) Recent(channel string) []parser.ParsedLine {
	key := strings.ToLower(channel)

	h.mu.Lock()
	defer h.mu.Unlock()

	lines := h.bufferLocked(key)
	out := make([]parser.ParsedLine, len(lines))
	copy(out, lines)
	return out
}

// Clear drops a channel's buffer.
//
// Parameters:
//   - channel: The channel name; normalized to lowercase
func (h *History) Clear(channel string) {
	key := strings.ToLower(channel)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.Delete(key)
}

// ChannelCount returns the number of channels that currently have a buffer,
// including buffers that have expired but not yet been cleaned up.
//
// Returns:
//   - The number of buffered channels
func (h *History) ChannelCount() int {
	return h.store.ItemCount()
}

// bufferLocked fetches a channel's buffer; caller must hold h.mu.
func (h *History) bufferLocked(key string) []parser.ParsedLine {
	v, found := h.store.Get(key)
	if !found {
		return nil
	}

	lines, ok := v.([]parser.ParsedLine)
	if !ok {
		return nil
	}

	return lines
}
