package ws

import (
	"math/rand"
	"time"
)

// Reconnect policy shared with clients. The delay is exponential with a
// small random jitter, capped, and bounded by a maximum attempt count after
// which the client gives up.
const (
	BackoffBase          = 400 * time.Millisecond
	BackoffCap           = 10 * time.Second
	BackoffMaxJitter     = 200 * time.Millisecond
	MaxReconnectAttempts = 8
)

// ReconnectDelay returns the backoff before reconnect attempt number attempt
// (0-based).
func ReconnectDelay(attempt int) time.Duration {
	return reconnectDelay(attempt, rand.Float64())
}

// reconnectDelay is the pure core: jitter is the random fraction in [0, 1).
func reconnectDelay(attempt int, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 24 {
		attempt = 24
	}
	d := BackoffBase * (1 << uint(attempt))
	if d > BackoffCap {
		d = BackoffCap
	}
	return d + time.Duration(jitter*float64(BackoffMaxJitter))
}
