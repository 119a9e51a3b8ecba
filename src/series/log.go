package series

import "sync"

// -----------------------------------------------------------------------------
// LogBuffer holds the rendered lines of the raw-message feed. Append/evict
// only, no deduplication; cleared when a subscription is torn down.
// -----------------------------------------------------------------------------

type LogBuffer struct {
	lines    []string
	capacity int
	mu       sync.RWMutex
}

// -----------------------------------------------------------------------------

// NewLogBuffer creates a log keeping the most recent capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &LogBuffer{
		lines:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append pushes a line to the end, evicting the oldest when over capacity.
func (l *LogBuffer) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, line)
	if len(l.lines) > l.capacity {
		l.lines = l.lines[1:]
	}
}

// -----------------------------------------------------------------------------

// Lines returns a copy of the buffered lines, oldest first.
func (l *LogBuffer) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// -----------------------------------------------------------------------------

// Size returns the buffered line count.
func (l *LogBuffer) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// -----------------------------------------------------------------------------

// Clear empties the buffer.
func (l *LogBuffer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = l.lines[:0]
}
