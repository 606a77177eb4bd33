package kstest

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"ksboot/domain/stats"
	"ksboot/internal/errors"
)

// drawSpec is a resampling policy resolved against concrete sample sizes.
type drawSpec struct {
	sizeA       int
	sizeB       int
	replacement bool
}

// resolvePolicy validates the policy against the pool and fixes the working
// sample sizes for every iteration. Exactly one sizing mode must be active.
func resolvePolicy(policy stats.ResamplingPolicy, n1, poolSize int) (drawSpec, error) {
	if policy.Iterations <= 0 {
		return drawSpec{}, errors.InvalidResamplingPolicy(
			fmt.Sprintf("iteration count must be positive, got %d", policy.Iterations))
	}
	if policy.FixedSize < 0 {
		return drawSpec{}, errors.InvalidResamplingPolicy(
			fmt.Sprintf("fixed size must not be negative, got %d", policy.FixedSize))
	}

	switch {
	case policy.FixedSize > 0 && policy.RespectRatio:
		return drawSpec{}, errors.InvalidResamplingPolicy(
			"ratio-preserving and fixed-size modes are mutually exclusive")

	case policy.FixedSize > 0:
		if policy.Replacement {
			if policy.FixedSize > poolSize {
				return drawSpec{}, errors.InvalidResamplingPolicy(
					fmt.Sprintf("fixed size %d exceeds pool size %d", policy.FixedSize, poolSize))
			}
		} else if 2*policy.FixedSize > poolSize {
			return drawSpec{}, errors.InvalidResamplingPolicy(
				fmt.Sprintf("two draws of %d without replacement exceed pool size %d", policy.FixedSize, poolSize))
		}
		return drawSpec{sizeA: policy.FixedSize, sizeB: policy.FixedSize, replacement: policy.Replacement}, nil

	case policy.RespectRatio:
		sizeB := poolSize - n1
		if policy.Replacement {
			// Both working samples match data1's length here; the original
			// left this combination's B size undefined.
			sizeB = n1
		}
		return drawSpec{sizeA: n1, sizeB: sizeB, replacement: policy.Replacement}, nil

	default:
		return drawSpec{}, errors.InvalidResamplingPolicy(
			"no sizing mode selected: set RespectRatio or a positive FixedSize")
	}
}

// shuffled returns a random permutation of pool, leaving pool untouched.
func shuffled(pool []float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(pool))
	copy(out, pool)
	// Fisher-Yates
	for j := len(out) - 1; j > 0; j-- {
		k := rng.Intn(j + 1)
		out[j], out[k] = out[k], out[j]
	}
	return out
}

// drawPair draws the two working samples for one iteration.
func drawPair(pool []float64, spec drawSpec, rng *rand.Rand) ([]float64, []float64) {
	s := shuffled(pool, rng)
	a := s[:spec.sizeA]
	if !spec.replacement {
		// True partition: no overlap, every pooled element used at most once.
		return a, s[spec.sizeA : spec.sizeA+spec.sizeB]
	}
	// With replacement the second working sample comes from an independent
	// permutation. The two draws may overlap; they are intentionally not a
	// partition of the pool.
	s2 := shuffled(pool, rng)
	return a, s2[:spec.sizeB]
}

// Calibrate estimates a one-sided p-value for referenceStat by resampling the
// pooled data policy.Iterations times, recomputing the directional statistic
// on each redraw, and reporting the fraction of resampled statistics at or
// above the reference. The caller owns the randomness source; seed it for
// reproducible runs.
func Calibrate(data1, data2 []float64, referenceStat float64, alternative stats.Alternative, policy stats.ResamplingPolicy, rng *rand.Rand) (*stats.BootstrapResult, error) {
	return calibrate(context.Background(), data1, data2, referenceStat, alternative, policy, rng, policy.Iterations)
}

// CalibrateParallel distributes the iterations across one worker per supplied
// randomness source. Each worker resamples independently; the hit counters
// sum and the statistic sequences concatenate, so the estimator is identical
// to the serial one given independent streams. Cancelling the context stops
// the loop early and returns the partial, inherently noisier, estimate built
// from the iterations that did complete.
func CalibrateParallel(ctx context.Context, data1, data2 []float64, referenceStat float64, alternative stats.Alternative, policy stats.ResamplingPolicy, rngs []*rand.Rand) (*stats.BootstrapResult, error) {
	if len(rngs) == 0 {
		return nil, errors.InvalidInput("at least one randomness source is required")
	}
	if len(rngs) == 1 {
		return calibrate(ctx, data1, data2, referenceStat, alternative, policy, rngs[0], policy.Iterations)
	}

	// Validate once up front so a bad policy fails before any worker starts.
	if err := validateCalibration(data1, data2, alternative, policy); err != nil {
		return nil, err
	}

	workers := len(rngs)
	results := make([]*stats.BootstrapResult, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := policy.Iterations / workers
		if w < policy.Iterations%workers {
			share++
		}
		if share == 0 {
			continue
		}
		g.Go(func() error {
			res, err := calibrate(gctx, data1, data2, referenceStat, alternative, policy, rngs[w], share)
			if err != nil {
				return err
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &stats.BootstrapResult{StatDistribution: make([]float64, 0, policy.Iterations)}
	hits := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, stat := range res.StatDistribution {
			if stat >= referenceStat {
				hits++
			}
		}
		merged.StatDistribution = append(merged.StatDistribution, res.StatDistribution...)
	}
	if len(merged.StatDistribution) == 0 {
		return nil, errors.Wrap(ctx.Err(), "calibration cancelled before any iteration completed")
	}
	merged.PValue = float64(hits) / float64(len(merged.StatDistribution))
	return merged, nil
}

func validateCalibration(data1, data2 []float64, alternative stats.Alternative, policy stats.ResamplingPolicy) error {
	if !alternative.Valid() {
		return errors.InvalidAlternative(string(alternative))
	}
	if len(data1) == 0 {
		return errors.EmptySample("data1")
	}
	if len(data2) == 0 {
		return errors.EmptySample("data2")
	}
	_, err := resolvePolicy(policy, len(data1), len(data1)+len(data2))
	return err
}

func calibrate(ctx context.Context, data1, data2 []float64, referenceStat float64, alternative stats.Alternative, policy stats.ResamplingPolicy, rng *rand.Rand, iterations int) (*stats.BootstrapResult, error) {
	if err := validateCalibration(data1, data2, alternative, policy); err != nil {
		return nil, err
	}
	spec, err := resolvePolicy(policy, len(data1), len(data1)+len(data2))
	if err != nil {
		return nil, err
	}

	pool := make([]float64, 0, len(data1)+len(data2))
	pool = append(pool, data1...)
	pool = append(pool, data2...)

	dist := make([]float64, 0, iterations)
	hits := 0
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return partialResult(dist, hits, ctx.Err())
		default:
		}

		a, b := drawPair(pool, spec, rng)
		res, err := ComputeStatistic(a, b, alternative)
		if err != nil {
			return nil, err
		}
		dist = append(dist, res.Statistic)
		if res.Statistic >= referenceStat {
			hits++
		}
	}

	return &stats.BootstrapResult{
		PValue:           float64(hits) / float64(len(dist)),
		StatDistribution: dist,
	}, nil
}

func partialResult(dist []float64, hits int, cause error) (*stats.BootstrapResult, error) {
	if len(dist) == 0 {
		return nil, errors.Wrap(cause, "calibration cancelled before any iteration completed")
	}
	return &stats.BootstrapResult{
		PValue:           float64(hits) / float64(len(dist)),
		StatDistribution: dist,
	}, nil
}
