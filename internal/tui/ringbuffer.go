package tui

// DefaultMaxLogLines is the default number of event log lines retained.
const DefaultMaxLogLines = 500

// RingBuffer is a fixed-size circular buffer for strings.
// When capacity is reached, new items overwrite the oldest items.
type RingBuffer struct {
	data  []string
	head  int // Index of the oldest item
	count int // Number of items in the buffer
	cap   int // Maximum capacity
}

// NewRingBuffer creates a new RingBuffer with the specified capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultMaxLogLines
	}
	return &RingBuffer{
		data: make([]string, capacity),
		cap:  capacity,
	}
}

// Push adds an item to the buffer, evicting the oldest if at capacity.
func (rb *RingBuffer) Push(item string) {
	if rb.count < rb.cap {
		rb.data[(rb.head+rb.count)%rb.cap] = item
		rb.count++
		return
	}
	rb.data[rb.head] = item
	rb.head = (rb.head + 1) % rb.cap
}

// Len returns the number of items in the buffer.
func (rb *RingBuffer) Len() int {
	return rb.count
}

// Cap returns the maximum capacity of the buffer.
func (rb *RingBuffer) Cap() int {
	return rb.cap
}

// Get returns the item at the specified index (0 = oldest).
// Returns empty string if index is out of range.
func (rb *RingBuffer) Get(index int) string {
	if index < 0 || index >= rb.count {
		return ""
	}
	return rb.data[(rb.head+index)%rb.cap]
}

// Tail returns up to n of the newest items, oldest first.
func (rb *RingBuffer) Tail(n int) []string {
	n = min(max(n, 0), rb.count)
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = rb.Get(rb.count - n + i)
	}
	return result
}

// ToSlice returns all items as a slice, ordered from oldest to newest.
func (rb *RingBuffer) ToSlice() []string {
	return rb.Tail(rb.count)
}

// Clear removes all items from the buffer.
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.count = 0
	clear(rb.data)
}
