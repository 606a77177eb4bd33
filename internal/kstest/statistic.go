package kstest

import (
	"sort"

	"ksboot/domain/stats"
	"ksboot/internal/empirical"
	"ksboot/internal/errors"
)

// ComputeStatistic computes the one-sided two-sample KS statistic for the
// given alternative: the maximum of the directional ECDF difference over the
// pooled grid, together with the grid point where that maximum occurs.
//
// The evaluation grid is the pooled, sorted multiset of both samples. Both
// ECDFs are step functions, so the maximal difference can only occur at a
// data point. Under A_LESS_THAN_B the difference is F1(x) - F2(x); under
// A_GREATER_THAN_B it is F2(x) - F1(x). When several grid points tie for the
// maximum, the smallest one wins, which keeps the reported location
// deterministic.
func ComputeStatistic(data1, data2 []float64, alternative stats.Alternative) (*stats.KSResult, error) {
	trace, err := Trace(data1, data2, alternative)
	if err != nil {
		return nil, err
	}
	return &stats.KSResult{Statistic: trace.Statistic, Location: trace.Location}, nil
}

// Trace computes the statistic and additionally returns the full evaluation:
// pooled grid, both ECDF value sequences, and the directional difference.
// Plotting and export collaborators consume the trace; the statistic and
// location in it are identical to what ComputeStatistic reports.
func Trace(data1, data2 []float64, alternative stats.Alternative) (*stats.ECDFTrace, error) {
	if !alternative.Valid() {
		return nil, errors.InvalidAlternative(string(alternative))
	}
	if len(data1) == 0 {
		return nil, errors.EmptySample("data1")
	}
	if len(data2) == 0 {
		return nil, errors.EmptySample("data2")
	}

	ecdf1, err := empirical.New(data1)
	if err != nil {
		return nil, err
	}
	ecdf2, err := empirical.New(data2)
	if err != nil {
		return nil, err
	}

	grid := pooledGrid(data1, data2)
	f1 := ecdf1.EvaluateAll(grid)
	f2 := ecdf2.EvaluateAll(grid)

	diff := make([]float64, len(grid))
	switch alternative {
	case stats.ALessThanB:
		for i := range grid {
			diff[i] = f1[i] - f2[i]
		}
	case stats.AGreaterThanB:
		for i := range grid {
			diff[i] = f2[i] - f1[i]
		}
	}

	// Stable argmax: strictly-greater comparison keeps the first peak.
	best := 0
	for i := 1; i < len(diff); i++ {
		if diff[i] > diff[best] {
			best = i
		}
	}

	return &stats.ECDFTrace{
		Grid:      grid,
		F1:        f1,
		F2:        f2,
		Diff:      diff,
		Statistic: diff[best],
		Location:  grid[best],
	}, nil
}

// pooledGrid merges both samples into one ascending sequence, duplicates kept.
func pooledGrid(data1, data2 []float64) []float64 {
	grid := make([]float64, 0, len(data1)+len(data2))
	grid = append(grid, data1...)
	grid = append(grid, data2...)
	sort.Float64s(grid)
	return grid
}
