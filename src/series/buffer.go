package series

import (
	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Buffer is a fixed-size circular store of chart points.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type Buffer struct {
	data     []models.MCanonicalPoint
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewBuffer creates a new buffer with fixed capacity
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1000 // Default reasonable size
	}

	return &Buffer{
		data:     make([]models.MCanonicalPoint, capacity),
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Push appends a point in arrival order, evicting the oldest when full.
// Points are not reordered by time.
func (b *Buffer) Push(point models.MCanonicalPoint) {
	b.data[b.index] = point
	b.index = (b.index + 1) % b.capacity

	// Update size (never exceeds capacity)
	if b.size < b.capacity {
		b.size++
	}
}

// -----------------------------------------------------------------------------

// GetAll returns all points in insertion order (oldest to newest)
func (b *Buffer) GetAll() []models.MCanonicalPoint {
	if b.size == 0 {
		return []models.MCanonicalPoint{}
	}

	result := make([]models.MCanonicalPoint, b.size)

	// Oldest element position
	var startIdx int
	if b.size == b.capacity {
		startIdx = b.index
	} else {
		startIdx = 0
	}

	for i := 0; i < b.size; i++ {
		result[i] = b.data[(startIdx+i)%b.capacity]
	}

	return result
}

// -----------------------------------------------------------------------------

// GetLatest returns the n most recent points, oldest first
func (b *Buffer) GetLatest(n int) []models.MCanonicalPoint {
	if b.size == 0 || n <= 0 {
		return []models.MCanonicalPoint{}
	}

	count := n
	if n > b.size {
		count = b.size
	}

	result := make([]models.MCanonicalPoint, count)
	startIdx := (b.index - count + b.capacity) % b.capacity

	for i := 0; i < count; i++ {
		result[i] = b.data[(startIdx+i)%b.capacity]
	}

	return result
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (b *Buffer) Size() int {
	return b.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (b *Buffer) Capacity() int {
	return b.capacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether buffer is full
func (b *Buffer) IsFull() bool {
	return b.size == b.capacity
}

// -----------------------------------------------------------------------------

// Clear resets the buffer
func (b *Buffer) Clear() {
	b.index = 0
	b.size = 0
}
