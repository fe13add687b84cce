package simulation

import (
	"math"
	"math/rand"
)

// Rand is the random source threaded through every sampling call. *rand.Rand
// satisfies it; tests substitute fixed sequences. Keeping the source explicit
// lets parallel workers hold independent streams with no global state.
type Rand interface {
	Float64() float64
	NormFloat64() float64
}

// NewRand returns a seeded source suitable for one worker's stream.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SamplePoisson draws from a Poisson distribution with the given mean. Small
// means use inverse transform sampling; large ones fall back to a normal
// approximation, which is accurate past a mean of about 12.
func SamplePoisson(rng Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	if lambda < 12 {
		L := math.Exp(-lambda)
		k := 0
		p := 1.0
		for p > L {
			k++
			p *= rng.Float64()
		}
		return k - 1
	}

	return int(math.Max(0, rng.NormFloat64()*math.Sqrt(lambda)+lambda+0.5))
}

// sampleYardsGivenEvents draws total yards for a number of discrete events
// (carries, catches, completions). The mean scales with the event count and
// the deviation with its square root, approximating the sum of per-event
// draws. Never negative.
func sampleYardsGivenEvents(rng Rand, events int, perEvent, stdPerEvent float64) float64 {
	if events <= 0 {
		return 0
	}
	mean := float64(events) * perEvent
	std := math.Sqrt(float64(events)) * stdPerEvent
	if std < 0.01 {
		std = 0.01
	}
	yards := rng.NormFloat64()*std + mean
	if yards < 0 {
		return 0
	}
	return yards
}
