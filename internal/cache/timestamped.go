package cache

import "time"

// Timestamped pairs a payload with its creation time so callers can build
// their own expiry checks on top of the cache. The provider stores it like
// any other value and never inspects Timestamp.
type Timestamped[T any] struct {
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTimestamped stamps data with the current UTC time.
func NewTimestamped[T any](data T) Timestamped[T] {
	return Timestamped[T]{Data: data, Timestamp: time.Now().UTC()}
}

// Age reports how long ago the payload was stamped, relative to now.
func (t Timestamped[T]) Age(now time.Time) time.Duration {
	return now.Sub(t.Timestamp)
}
