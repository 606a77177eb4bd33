// Package testkit provides deterministic sample fixtures for tests and demos.
package testkit

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// SeededRNG returns a reproducible randomness source.
func SeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NormalSample draws n values from Normal(mu, sigma) by inverse-CDF sampling,
// so the output is fully determined by the supplied source.
func NormalSample(rng *rand.Rand, mu, sigma float64, n int) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	out := make([]float64, n)
	for i := range out {
		u := rng.Float64()
		for u == 0 {
			// Quantile(0) is -Inf
			u = rng.Float64()
		}
		out[i] = dist.Quantile(u)
	}
	return out
}

// UniformSample draws n values uniformly from [lo, hi).
func UniformSample(rng *rand.Rand, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}
	return out
}
