package models

import (
	"time"

	"ksboot/domain/core"
	"ksboot/domain/stats"
	"ksboot/internal/profiling"
)

// TestRecord is the persisted form of one completed KS test run: the result
// plus enough context (direction, policy, seed, sample summaries) to read it
// without the raw data.
type TestRecord struct {
	ID          core.ID                `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	Alternative stats.Alternative      `json:"alternative"`
	Statistic   float64                `json:"statistic"`
	Location    float64                `json:"location"`
	PValue      float64                `json:"pvalue"`
	Iterations  int                    `json:"iterations"`
	Policy      stats.ResamplingPolicy `json:"policy"`
	Seed        int64                  `json:"seed"`
	Workers     int                    `json:"workers"`

	// Fingerprint ties the record to the exact input pair, order-sensitive.
	Fingerprint core.SampleFingerprint `json:"fingerprint"`

	Sample1 *profiling.DistributionSummary `json:"sample1,omitempty"`
	Sample2 *profiling.DistributionSummary `json:"sample2,omitempty"`

	// ExportPath points at the workbook written for this run, if any.
	ExportPath string `json:"export_path,omitempty"`
}

// Result reconstructs the domain-level result from the record.
func (r *TestRecord) Result() stats.TestResult {
	return stats.TestResult{
		KSResult: stats.KSResult{Statistic: r.Statistic, Location: r.Location},
		PValue:   r.PValue,
	}
}
