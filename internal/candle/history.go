package candle

import "feedsim/internal/model"

// History is a fixed-capacity circular buffer of completed candles.
// When full, a push evicts the oldest entry. It is not goroutine-safe:
// it is owned exclusively by the Aggregator, which is driven from a
// single scheduling domain.
type History struct {
	buf  []model.Candle
	cap  int
	pos  int // next write position
	full bool
}

// NewHistory creates a history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		buf: make([]model.Candle, capacity),
		cap: capacity,
	}
}

// Push appends a completed candle, evicting the oldest entry when full.
func (h *History) Push(c model.Candle) {
	h.buf[h.pos] = c
	h.pos = (h.pos + 1) % h.cap
	if h.pos == 0 && !h.full {
		h.full = true
	}
}

// Len returns the number of stored candles.
func (h *History) Len() int {
	if h.full {
		return h.cap
	}
	return h.pos
}

// Cap returns the capacity.
func (h *History) Cap() int { return h.cap }

// Candles returns a copy of the stored candles, oldest first.
func (h *History) Candles() []model.Candle {
	n := h.Len()
	out := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		out[i] = h.buf[h.index(i)]
	}
	return out
}

// index converts a logical index (0 = oldest) to a physical buffer index.
func (h *History) index(logical int) int {
	if h.full {
		return (h.pos + logical) % h.cap
	}
	return logical
}
