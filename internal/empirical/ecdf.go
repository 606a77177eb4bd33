package empirical

import (
	"sort"

	"ksboot/internal/errors"
)

// ECDF is the empirical cumulative distribution function of one sample: a
// right-continuous step function F(x) = (count of sample values <= x) / n,
// with F = 0 below the sample minimum and F = 1 at and above the maximum.
// Construction sorts a private copy; the caller's slice is never touched.
type ECDF struct {
	sorted []float64
}

// New builds the ECDF for a sample. The sample must have at least one
// observation; duplicates are retained and weight the steps accordingly.
func New(sample []float64) (*ECDF, error) {
	if len(sample) == 0 {
		return nil, errors.EmptySample("input")
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return &ECDF{sorted: sorted}, nil
}

// Len returns the sample size.
func (e *ECDF) Len() int {
	return len(e.sorted)
}

// Evaluate returns F(x) for a single query point.
func (e *ECDF) Evaluate(x float64) float64 {
	// First index whose value exceeds x == count of values <= x.
	count := sort.Search(len(e.sorted), func(i int) bool {
		return e.sorted[i] > x
	})
	return float64(count) / float64(len(e.sorted))
}

// EvaluateAll returns F at every query point. When the queries are in
// ascending order (the pooled-grid case) a single merge walk over the sorted
// sample evaluates the whole batch in O(m+n); otherwise each point falls back
// to a binary search.
func (e *ECDF) EvaluateAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if !sort.Float64sAreSorted(xs) {
		for i, x := range xs {
			out[i] = e.Evaluate(x)
		}
		return out
	}

	n := float64(len(e.sorted))
	j := 0
	for i, x := range xs {
		for j < len(e.sorted) && e.sorted[j] <= x {
			j++
		}
		out[i] = float64(j) / n
	}
	return out
}
