package simulation

import (
	"math"
	"testing"
)

func TestSamplePoissonZeroAndNegative(t *testing.T) {
	rng := NewRand(1)
	for _, lambda := range []float64{0, -1, -0.5} {
		for i := 0; i < 100; i++ {
			if got := SamplePoisson(rng, lambda); got != 0 {
				t.Fatalf("lambda %v: expected 0, got %d", lambda, got)
			}
		}
	}
}

func TestSamplePoissonMean(t *testing.T) {
	rng := NewRand(42)
	const n = 20000
	const lambda = 3.0

	sum := 0
	for i := 0; i < n; i++ {
		k := SamplePoisson(rng, lambda)
		if k < 0 {
			t.Fatalf("negative draw %d", k)
		}
		sum += k
	}
	mean := float64(sum) / n
	if math.Abs(mean-lambda) > 0.1 {
		t.Fatalf("mean %.3f too far from lambda %.1f", mean, lambda)
	}
}

func TestSamplePoissonLargeLambda(t *testing.T) {
	rng := NewRand(7)
	const n = 20000
	const lambda = 30.0 // normal approximation branch

	sum := 0
	for i := 0; i < n; i++ {
		k := SamplePoisson(rng, lambda)
		if k < 0 {
			t.Fatalf("negative draw %d", k)
		}
		sum += k
	}
	mean := float64(sum) / n
	if math.Abs(mean-lambda) > 0.5 {
		t.Fatalf("mean %.3f too far from lambda %.1f", mean, lambda)
	}
}

func TestSamplePoissonDeterministic(t *testing.T) {
	a := NewRand(99)
	b := NewRand(99)
	for i := 0; i < 1000; i++ {
		if x, y := SamplePoisson(a, 4.2), SamplePoisson(b, 4.2); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestSampleYardsGivenEvents(t *testing.T) {
	rng := NewRand(11)

	if got := sampleYardsGivenEvents(rng, 0, 8, 6); got != 0 {
		t.Fatalf("zero events should yield zero yards, got %v", got)
	}

	const n = 5000
	sum := 0.0
	for i := 0; i < n; i++ {
		y := sampleYardsGivenEvents(rng, 20, 8, 6)
		if y < 0 {
			t.Fatalf("negative yards %v", y)
		}
		sum += y
	}
	mean := sum / n
	if math.Abs(mean-160) > 3 {
		t.Fatalf("mean yards %.2f too far from 160", mean)
	}
}
