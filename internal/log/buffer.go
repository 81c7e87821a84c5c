package log

import (
	"sync"
	"time"
)

// LogEntry is one record held in a LogBuffer.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogBuffer is a fixed-size ring of the most recent entries.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer creates a buffer holding at most size entries.
func NewLogBuffer(size int) *LogBuffer {
	if size < 1 {
		size = 1
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// AddEntry appends an entry, overwriting the oldest once the buffer is full.
func (b *LogBuffer) AddEntry(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// GetEntries returns up to limit of the newest entries, oldest first. A
// limit of zero or less returns everything held.
func (b *LogBuffer) GetEntries(limit int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}
	if limit > 0 && limit < count {
		count = limit
	}

	out := make([]LogEntry, 0, count)
	start := b.next - count
	if start < 0 {
		start += len(b.entries)
	}
	for i := 0; i < count; i++ {
		out = append(out, b.entries[(start+i)%len(b.entries)])
	}
	return out
}

// Len returns the number of entries held.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}
