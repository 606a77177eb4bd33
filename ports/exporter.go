package ports

import (
	"ksboot/domain/stats"
)

// ExporterPort hands a completed run's evaluation data to a visualization
// collaborator. Side-effect-only; the core never depends on it succeeding.
type ExporterPort interface {
	// ExportWorkbook writes the ECDF trace and the resampled statistic
	// distribution (with its reference value) to one workbook at path.
	ExportWorkbook(path string, trace *stats.ECDFTrace, distribution []float64, reference float64) error
}
