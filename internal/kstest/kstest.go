// Package kstest implements a one-sided two-sample Kolmogorov-Smirnov test
// with a resampling-based p-value estimate. The observed statistic is the
// maximum directional difference between the two empirical CDFs; its
// significance is calibrated by repeatedly redrawing the pooled data and
// counting how often the resampled statistic reaches the observed one.
package kstest

import (
	"context"
	"math/rand"

	"ksboot/domain/stats"
)

// Run executes the full test: the observed statistic and location on the
// unperturbed samples, then the resampled p-value for that statistic, all
// under one shared alternative. The randomness source drives only the
// calibration; seed it for reproducible runs.
func Run(data1, data2 []float64, alternative stats.Alternative, policy stats.ResamplingPolicy, rng *rand.Rand) (*stats.TestResult, error) {
	observed, err := ComputeStatistic(data1, data2, alternative)
	if err != nil {
		return nil, err
	}

	boot, err := Calibrate(data1, data2, observed.Statistic, alternative, policy, rng)
	if err != nil {
		return nil, err
	}

	return &stats.TestResult{
		KSResult: *observed,
		PValue:   boot.PValue,
	}, nil
}

// RunParallel is Run with the calibration spread across one worker per
// randomness source; see CalibrateParallel for the merge semantics.
func RunParallel(ctx context.Context, data1, data2 []float64, alternative stats.Alternative, policy stats.ResamplingPolicy, rngs []*rand.Rand) (*stats.TestResult, error) {
	observed, err := ComputeStatistic(data1, data2, alternative)
	if err != nil {
		return nil, err
	}

	boot, err := CalibrateParallel(ctx, data1, data2, observed.Statistic, alternative, policy, rngs)
	if err != nil {
		return nil, err
	}

	return &stats.TestResult{
		KSResult: *observed,
		PValue:   boot.PValue,
	}, nil
}
