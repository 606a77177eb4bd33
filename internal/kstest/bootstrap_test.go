package kstest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ksboot/domain/stats"
	"ksboot/internal/errors"
	"ksboot/internal/testkit"
)

func TestCalibratePValueRange(t *testing.T) {
	rng := testkit.SeededRNG(10)
	a := testkit.NormalSample(rng, 8, 4, 60)
	b := testkit.NormalSample(rng, 9, 3, 80)

	ref, err := ComputeStatistic(a, b, stats.ALessThanB)
	require.NoError(t, err)

	res, err := Calibrate(a, b, ref.Statistic, stats.ALessThanB, stats.DefaultPolicy(500), rng)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.PValue, 0.0)
	assert.LessOrEqual(t, res.PValue, 1.0)
	assert.Len(t, res.StatDistribution, 500)
	for _, stat := range res.StatDistribution {
		assert.GreaterOrEqual(t, stat, 0.0)
		assert.LessOrEqual(t, stat, 1.0)
	}
}

func TestCalibrateSelfIsOne(t *testing.T) {
	rng := testkit.SeededRNG(11)
	sample := testkit.NormalSample(rng, 8, 4, 100)

	// Identity statistic is exactly 0; every resampled statistic is >= 0.
	res, err := Calibrate(sample, sample, 0.0, stats.ALessThanB, stats.DefaultPolicy(1000), rng)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
}

func TestCalibrateFarDistributions(t *testing.T) {
	rng := testkit.SeededRNG(12)
	low := testkit.NormalSample(rng, 8, 4, 100)
	high := testkit.NormalSample(rng, 30, 0.5, 150)

	// Aligned direction: the unmixed extreme (statistic 1.0) is unreachable
	// once the pool is shuffled.
	ref, err := ComputeStatistic(low, high, stats.ALessThanB)
	require.NoError(t, err)
	require.Equal(t, 1.0, ref.Statistic)

	res, err := Calibrate(low, high, ref.Statistic, stats.ALessThanB, stats.DefaultPolicy(1000), rng)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.PValue)

	// Reverse direction: the observed statistic degenerates to 0 and every
	// resample is at or above it.
	refFlip, err := ComputeStatistic(low, high, stats.AGreaterThanB)
	require.NoError(t, err)
	require.Equal(t, 0.0, refFlip.Statistic)

	res, err = Calibrate(low, high, refFlip.Statistic, stats.AGreaterThanB, stats.DefaultPolicy(1000), rng)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
}

func TestCalibrateSimilarDistributionsNonSignificant(t *testing.T) {
	rng := testkit.SeededRNG(13)
	a := testkit.NormalSample(rng, 8, 4, 100)
	b := testkit.NormalSample(rng, 8, 4, 300)

	ref, err := ComputeStatistic(a, b, stats.ALessThanB)
	require.NoError(t, err)

	res, err := Calibrate(a, b, ref.Statistic, stats.ALessThanB, stats.DefaultPolicy(1000), rng)
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.05)
}

func TestCalibrateDeterministicWithSeed(t *testing.T) {
	build := func() *stats.BootstrapResult {
		rng := testkit.SeededRNG(99)
		a := testkit.NormalSample(rng, 0, 1, 50)
		b := testkit.NormalSample(rng, 1, 1, 50)
		res, err := Calibrate(a, b, 0.2, stats.ALessThanB, stats.DefaultPolicy(200), rng)
		require.NoError(t, err)
		return res
	}

	first := build()
	second := build()
	assert.Equal(t, first.PValue, second.PValue)
	assert.Equal(t, first.StatDistribution, second.StatDistribution)
}

func TestCalibrateFixedSizeModes(t *testing.T) {
	rng := testkit.SeededRNG(14)
	a := testkit.NormalSample(rng, 0, 1, 40)
	b := testkit.NormalSample(rng, 0, 1, 60)

	tests := []struct {
		name   string
		policy stats.ResamplingPolicy
	}{
		{"fixed without replacement", stats.ResamplingPolicy{FixedSize: 30, Iterations: 200}},
		{"fixed with replacement", stats.ResamplingPolicy{FixedSize: 80, Replacement: true, Iterations: 200}},
		{"ratio with replacement", stats.ResamplingPolicy{RespectRatio: true, Replacement: true, Iterations: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calibrate(a, b, 0.1, stats.ALessThanB, tt.policy, rng)
			require.NoError(t, err)
			assert.Len(t, res.StatDistribution, 200)
			assert.GreaterOrEqual(t, res.PValue, 0.0)
			assert.LessOrEqual(t, res.PValue, 1.0)
		})
	}
}

func TestCalibrateInvalidPolicies(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	tests := []struct {
		name   string
		policy stats.ResamplingPolicy
	}{
		{"zero iterations", stats.ResamplingPolicy{RespectRatio: true}},
		{"negative iterations", stats.ResamplingPolicy{RespectRatio: true, Iterations: -5}},
		{"no sizing mode", stats.ResamplingPolicy{Iterations: 100}},
		{"conflicting modes", stats.ResamplingPolicy{RespectRatio: true, FixedSize: 2, Iterations: 100}},
		{"negative fixed size", stats.ResamplingPolicy{FixedSize: -1, Iterations: 100}},
		{"fixed draws exceed pool", stats.ResamplingPolicy{FixedSize: 4, Iterations: 100}},
		{"fixed draw exceeds pool with replacement", stats.ResamplingPolicy{FixedSize: 7, Replacement: true, Iterations: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := testkit.SeededRNG(1)
			_, err := Calibrate(a, b, 0.5, stats.ALessThanB, tt.policy, rng)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidResamplingPolicy, errors.GetCode(err))
		})
	}
}

func TestCalibrateInvalidAlternative(t *testing.T) {
	rng := testkit.SeededRNG(1)
	_, err := Calibrate([]float64{1}, []float64{2}, 0.5, stats.Alternative("bogus"), stats.DefaultPolicy(10), rng)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidAlternative, errors.GetCode(err))
}

func TestCalibrateParallelMergesAllIterations(t *testing.T) {
	seedRNG := testkit.SeededRNG(20)
	a := testkit.NormalSample(seedRNG, 8, 4, 80)
	b := testkit.NormalSample(seedRNG, 9, 3, 80)

	ref, err := ComputeStatistic(a, b, stats.ALessThanB)
	require.NoError(t, err)

	rngs := []*rand.Rand{testkit.SeededRNG(21), testkit.SeededRNG(22), testkit.SeededRNG(23)}
	res, err := CalibrateParallel(context.Background(), a, b, ref.Statistic, stats.ALessThanB, stats.DefaultPolicy(1001), rngs)
	require.NoError(t, err)

	assert.Len(t, res.StatDistribution, 1001)
	assert.GreaterOrEqual(t, res.PValue, 0.0)
	assert.LessOrEqual(t, res.PValue, 1.0)

	// The p-value must equal the fraction of merged statistics at or above
	// the reference, regardless of worker ordering.
	hits := 0
	for _, stat := range res.StatDistribution {
		if stat >= ref.Statistic {
			hits++
		}
	}
	assert.Equal(t, float64(hits)/float64(len(res.StatDistribution)), res.PValue)
}

func TestCalibrateParallelRequiresSources(t *testing.T) {
	_, err := CalibrateParallel(context.Background(), []float64{1}, []float64{2}, 0.5, stats.ALessThanB, stats.DefaultPolicy(10), nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCalibrateParallelValidatesBeforeStarting(t *testing.T) {
	rngs := []*rand.Rand{testkit.SeededRNG(1), testkit.SeededRNG(2)}
	_, err := CalibrateParallel(context.Background(), []float64{1}, []float64{2}, 0.5, stats.ALessThanB, stats.ResamplingPolicy{Iterations: 10}, rngs)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidResamplingPolicy, errors.GetCode(err))
}

func TestCalibrateCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := testkit.SeededRNG(30)
	a := testkit.NormalSample(rng, 0, 1, 50)
	b := testkit.NormalSample(rng, 0, 1, 50)

	_, err := CalibrateParallel(ctx, a, b, 0.5, stats.ALessThanB, stats.DefaultPolicy(100000), []*rand.Rand{rng})
	require.Error(t, err)
}

// cancellingSource trips the cancel func after a fixed number of draws, so a
// calibration run can be interrupted at a known point mid-loop.
type cancellingSource struct {
	inner  rand.Source
	draws  int
	limit  int
	cancel context.CancelFunc
}

func (s *cancellingSource) Int63() int64 {
	s.draws++
	if s.draws == s.limit {
		s.cancel()
	}
	return s.inner.Int63()
}

func (s *cancellingSource) Seed(seed int64) { s.inner.Seed(seed) }

func TestCalibrateCancelledMidRunReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seeded := testkit.SeededRNG(31)
	a := testkit.NormalSample(seeded, 0, 1, 10)
	b := testkit.NormalSample(seeded, 0, 1, 10)

	// Each iteration shuffles the 20-element pool, so 200 draws complete a
	// handful of iterations before the cancel lands.
	src := &cancellingSource{inner: rand.NewSource(32), limit: 200, cancel: cancel}
	iterations := 100000

	res, err := CalibrateParallel(ctx, a, b, 0.2, stats.ALessThanB, stats.DefaultPolicy(iterations), []*rand.Rand{rand.New(src)})
	require.NoError(t, err)
	assert.Greater(t, len(res.StatDistribution), 0)
	assert.Less(t, len(res.StatDistribution), iterations)
	assert.GreaterOrEqual(t, res.PValue, 0.0)
	assert.LessOrEqual(t, res.PValue, 1.0)
}

func TestRunEndToEnd(t *testing.T) {
	rng := testkit.SeededRNG(40)
	a := testkit.NormalSample(rng, 8, 4, 150)
	b := testkit.NormalSample(rng, 9, 3, 150)

	res, err := Run(a, b, stats.ALessThanB, stats.DefaultPolicy(1000), rng)
	require.NoError(t, err)

	// A real but modest shift: a small positive statistic and a p-value not
	// forced to 1.
	assert.Greater(t, res.Statistic, 0.0)
	assert.Less(t, res.Statistic, 0.3)
	assert.GreaterOrEqual(t, res.PValue, 0.0)
	assert.Less(t, res.PValue, 1.0)
}

func TestRunParallelEndToEnd(t *testing.T) {
	rng := testkit.SeededRNG(41)
	a := testkit.NormalSample(rng, 8, 4, 150)
	b := testkit.NormalSample(rng, 9, 3, 150)

	rngs := []*rand.Rand{testkit.SeededRNG(42), testkit.SeededRNG(43)}
	res, err := RunParallel(context.Background(), a, b, stats.ALessThanB, stats.DefaultPolicy(1000), rngs)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.PValue, 0.0)
	assert.LessOrEqual(t, res.PValue, 1.0)
	assert.Less(t, res.Statistic, 0.3)
}
