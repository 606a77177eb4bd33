package stats

import (
	"strings"
)

// Alternative selects the direction of the one-sided test. Exactly two
// directions exist; anything else is a configuration error, never a default.
type Alternative string

const (
	// ALessThanB tests whether distribution A is stochastically less than B.
	ALessThanB Alternative = "A_LESS_THAN_B"
	// AGreaterThanB tests whether distribution A is stochastically greater than B.
	AGreaterThanB Alternative = "A_GREATER_THAN_B"
)

// Valid reports whether the alternative is one of the two closed variants.
func (a Alternative) Valid() bool {
	return a == ALessThanB || a == AGreaterThanB
}

// ParseAlternative normalizes the textual aliases accepted at the boundary.
// "A less than B" and "B greater than A" name the same direction, as do their
// numeric spellings ("1 less than 2", "2 greater than 1").
func ParseAlternative(s string) (Alternative, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ALessThanB), "B_GREATER_THAN_A",
		"A LESS THAN B", "B GREATER THAN A",
		"1 LESS THAN 2", "2 GREATER THAN 1":
		return ALessThanB, true
	case string(AGreaterThanB), "B_LESS_THAN_A",
		"A GREATER THAN B", "B LESS THAN A",
		"1 GREATER THAN 2", "2 LESS THAN 1":
		return AGreaterThanB, true
	}
	return "", false
}

// Flip returns the opposite direction.
func (a Alternative) Flip() Alternative {
	if a == ALessThanB {
		return AGreaterThanB
	}
	return ALessThanB
}

// KSResult holds the directional KS statistic and the grid point where the
// ECDF difference peaks. Statistic is >= 0 by construction.
type KSResult struct {
	Statistic float64 `json:"statistic"`
	Location  float64 `json:"location"`
}

// ECDFTrace carries everything a plotting collaborator needs to render the
// two ECDFs and their directional difference. Side-effect-only consumers; the
// core never reads it back.
type ECDFTrace struct {
	Grid      []float64 `json:"grid"`
	F1        []float64 `json:"f1"`
	F2        []float64 `json:"f2"`
	Diff      []float64 `json:"diff"`
	Statistic float64   `json:"statistic"`
	Location  float64   `json:"location"`
}

// ResamplingPolicy governs how the pooled data is redrawn per iteration.
// Exactly one sizing mode must be resolvable: ratio-preserving (RespectRatio
// set, FixedSize zero) or fixed-size (FixedSize positive, RespectRatio unset).
// The policy is declared once per calibration run and never mutated during it.
type ResamplingPolicy struct {
	RespectRatio bool `json:"respect_ratio"`
	Replacement  bool `json:"replacement"`
	FixedSize    int  `json:"fixed_size,omitempty"`
	Iterations   int  `json:"iterations"`
}

// DefaultPolicy mirrors the conventional setup: ratio-preserving partition
// resampling without replacement.
func DefaultPolicy(iterations int) ResamplingPolicy {
	return ResamplingPolicy{
		RespectRatio: true,
		Replacement:  false,
		Iterations:   iterations,
	}
}

// BootstrapResult is the outcome of one calibration run. StatDistribution has
// one entry per completed iteration and is retained only for inspection and
// plotting by the caller.
type BootstrapResult struct {
	PValue           float64   `json:"pvalue"`
	StatDistribution []float64 `json:"stat_distribution"`
}

// TestResult is the terminal artifact of a full test: observed statistic and
// location plus the resampled significance estimate.
type TestResult struct {
	KSResult
	PValue float64 `json:"pvalue"`
}
