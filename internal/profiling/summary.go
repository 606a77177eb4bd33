// Package profiling computes descriptive summaries of the input samples so a
// persisted test result can be interpreted without the raw data.
package profiling

import (
	"github.com/montanaflynn/stats"

	"ksboot/internal/errors"
)

// DistributionSummary holds descriptive statistics for one sample
type DistributionSummary struct {
	Size   int     `json:"size"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes the descriptive summary of a sample
func Summarize(data []float64) (*DistributionSummary, error) {
	if len(data) == 0 {
		return nil, errors.EmptySample("input")
	}

	summary := &DistributionSummary{Size: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute mean")
	}
	summary.Mean = mean

	if len(data) > 1 {
		stdDev, err := stats.StandardDeviationSample(data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute standard deviation")
		}
		summary.StdDev = stdDev
	}

	min, err := stats.Min(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute min")
	}
	summary.Min = min

	max, err := stats.Max(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute max")
	}
	summary.Max = max

	median, err := stats.Median(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute median")
	}
	summary.Median = median

	// Percentile needs at least two observations
	if len(data) > 1 {
		q25, err := stats.Percentile(data, 25)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute 25th percentile")
		}
		q75, err := stats.Percentile(data, 75)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute 75th percentile")
		}
		summary.Q25 = q25
		summary.Q75 = q75
	} else {
		summary.Q25 = data[0]
		summary.Q75 = data[0]
	}

	return summary, nil
}
