package market

import (
	"sync"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// DefaultHistoryCapacity is the default number of samples retained per
// instrument, enough for the longest indicator window (EMA-200).
const DefaultHistoryCapacity = 200

// PriceHistory is a fixed-capacity rolling window of price/volume samples.
// Appends are serialized; Snapshot copies the window out so readers never
// observe a torn write and indicator computation can run lock-free.
type PriceHistory struct {
	mu       sync.Mutex
	buf      []types.PricePoint
	head     int
	size     int
	capacity int
}

// NewPriceHistory creates a history with the given capacity. A non-positive
// capacity falls back to DefaultHistoryCapacity.
func NewPriceHistory(capacity int) *PriceHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &PriceHistory{
		buf:      make([]types.PricePoint, capacity),
		capacity: capacity,
	}
}

// Append adds a sample, evicting the oldest once the window is full.
func (h *PriceHistory) Append(point types.PricePoint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf[h.head] = point
	h.head = (h.head + 1) % h.capacity

	if h.size < h.capacity {
		h.size++
	}
}

// Len returns the number of samples currently held.
func (h *PriceHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.size
}

// Snapshot returns the samples in chronological order (oldest first).
func (h *PriceHistory) Snapshot() []types.PricePoint {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]types.PricePoint, h.size)

	if h.size < h.capacity {
		copy(out, h.buf[:h.size])

		return out
	}

	// Window is full: oldest sample sits at head.
	n := copy(out, h.buf[h.head:])
	copy(out[n:], h.buf[:h.head])

	return out
}
