package feed

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness used by the generator and margin source.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Clock supplies wall-clock time for quote timestamps.
type Clock interface {
	Now() time.Time
}

// SystemRand uses the goroutine-safe top-level math/rand/v2 source.
type SystemRand struct{}

func (SystemRand) IntN(n int) int   { return rand.IntN(n) }
func (SystemRand) Float64() float64 { return rand.Float64() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
