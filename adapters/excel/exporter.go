// Package excel writes a run's evaluation data to a workbook so the ECDF
// difference and the resampled null distribution can be charted outside the
// service.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ksboot/domain/stats"
	"ksboot/internal/errors"
	"ksboot/ports"
)

const (
	ecdfSheet         = "ECDF"
	distributionSheet = "Null Distribution"
)

// Exporter implements ports.ExporterPort with xlsx workbooks.
type Exporter struct{}

// NewExporter creates a workbook exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportWorkbook writes two sheets: the pooled grid with both ECDFs and their
// directional difference, and the resampled statistic distribution with the
// reference statistic alongside each row.
func (e *Exporter) ExportWorkbook(path string, trace *stats.ECDFTrace, distribution []float64, reference float64) error {
	if path == "" {
		return errors.InvalidInput("export path cannot be empty")
	}
	if trace == nil {
		return errors.InvalidInput("ECDF trace is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeECDFSheet(f, trace); err != nil {
		return err
	}
	if err := e.writeDistributionSheet(f, distribution, reference); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on the ECDF view.
	index, err := f.GetSheetIndex(ecdfSheet)
	if err != nil {
		return errors.Wrap(err, "failed to locate ECDF sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to remove default sheet")
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook to %s", path)
	}
	return nil
}

func (e *Exporter) writeECDFSheet(f *excelize.File, trace *stats.ECDFTrace) error {
	if _, err := f.NewSheet(ecdfSheet); err != nil {
		return errors.Wrap(err, "failed to create ECDF sheet")
	}

	header := []interface{}{"x", "F1(x)", "F2(x)", "diff", "statistic", "location"}
	if err := f.SetSheetRow(ecdfSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write ECDF header")
	}

	for i := range trace.Grid {
		row := []interface{}{trace.Grid[i], trace.F1[i], trace.F2[i], trace.Diff[i]}
		if i == 0 {
			row = append(row, trace.Statistic, trace.Location)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(ecdfSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write ECDF row %d", i)
		}
	}
	return nil
}

func (e *Exporter) writeDistributionSheet(f *excelize.File, distribution []float64, reference float64) error {
	if _, err := f.NewSheet(distributionSheet); err != nil {
		return errors.Wrap(err, "failed to create distribution sheet")
	}

	header := []interface{}{"statistic", "reference"}
	if err := f.SetSheetRow(distributionSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write distribution header")
	}

	for i, stat := range distribution {
		row := []interface{}{stat}
		if i == 0 {
			row = append(row, reference)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(distributionSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write distribution row %d", i)
		}
	}
	return nil
}

var _ ports.ExporterPort = (*Exporter)(nil)
