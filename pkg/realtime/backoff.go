package realtime

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes reconnect delays: exponential growth from Initial, capped
// at Max, with proportional random jitter. The first delay is never below
// Initial, so a freshly dropped connection is not hammered.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
	Jitter  float64
}

// DefaultBackoff mirrors the channel's historical 5 s floor while capping
// growth at 80 s.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial: 5 * time.Second,
		Max:     80 * time.Second,
		Factor:  2,
		Jitter:  0.2,
	}
}

// Delay returns the wait before reconnect attempt n (n starts at 1).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := b.Initial
	if initial <= 0 {
		initial = 5 * time.Second
	}
	factor := b.Factor
	if factor < 1 {
		factor = 2
	}
	max := b.Max
	if max < initial {
		max = initial
	}

	delay := float64(initial) * math.Pow(factor, float64(attempt-1))
	if delay > float64(max) {
		delay = float64(max)
	}
	if b.Jitter > 0 {
		// Jitter only extends the delay so the Initial floor holds.
		delay += delay * b.Jitter * rand.Float64()
	}
	return time.Duration(delay)
}
