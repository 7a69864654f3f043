package chart

// DefaultCapacity is the number of samples a chart keeps.
const DefaultCapacity = 50

// Buffer is a fixed-size FIFO of float64 samples. Once full, each Add
// evicts the oldest value. It is not safe for concurrent use; the
// dashboard only touches it from its update loop.
type Buffer struct {
	data  []float64
	head  int
	count int
}

// NewBuffer creates a buffer holding up to capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{data: make([]float64, capacity)}
}

// Add appends v, dropping the oldest sample when the buffer is full.
func (b *Buffer) Add(v float64) {
	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// Values returns the samples oldest first.
func (b *Buffer) Values() []float64 {
	return b.Last(b.count)
}

// Last returns up to n of the newest samples, oldest first.
func (b *Buffer) Last(n int) []float64 {
	if n <= 0 || b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	size := len(b.data)
	out := make([]float64, n)
	// head is the next write slot, so the newest value sits at head-1.
	start := (b.head - n + size) % size
	for i := range out {
		out[i] = b.data[(start+i)%size]
	}
	return out
}

// Len is the number of samples held.
func (b *Buffer) Len() int { return b.count }

// Cap is the maximum number of samples held.
func (b *Buffer) Cap() int { return len(b.data) }

// Reset drops every sample.
func (b *Buffer) Reset() {
	b.head = 0
	b.count = 0
}
