package mirasdk

import "time"

const (
	defaultEmotionHistorySize = 10
	defaultMoodHistorySize    = 50
	defaultPersistedHistory   = 20
)

// EmotionHistoryEntry archives one scored utterance.
type EmotionHistoryEntry struct {
	TextSnippet    string    `json:"text_snippet"`
	Emotion        Emotion   `json:"emotion"`
	Score          float64   `json:"score"`
	Intensity      float64   `json:"intensity"`
	ContextFactors []string  `json:"context_factors,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// MoodHistoryEntry archives one mood computation.
type MoodHistoryEntry struct {
	Mood      Mood      `json:"mood"`
	Emotion   Emotion   `json:"emotion"`
	Intensity float64   `json:"intensity"`
	Timestamp time.Time `json:"timestamp"`
}

// Ring is a fixed-capacity FIFO buffer: pushing onto a full ring evicts
// the oldest element.
type Ring[T any] struct {
	items []T
	start int
	size  int
}

// NewRing creates a ring with the given capacity (minimum 1).
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full.
func (r *Ring[T]) Push(v T) {
	c := len(r.items)
	if r.size < c {
		r.items[(r.start+r.size)%c] = v
		r.size++
		return
	}
	r.items[r.start] = v
	r.start = (r.start + 1) % c
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }

// Slice returns a copy of the contents, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.start+i)%len(r.items)]
	}
	return out
}

// Last returns a copy of the newest n elements, oldest first.
func (r *Ring[T]) Last(n int) []T {
	all := r.Slice()
	if n >= len(all) {
		return all
	}
	if n <= 0 {
		return []T{}
	}
	return all[len(all)-n:]
}

// Reset drops every element.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.start, r.size = 0, 0
}
