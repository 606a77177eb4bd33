// Package report renders human-readable summaries of completed test runs.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ksboot/models"
)

// Markdown builds a markdown summary of one test record.
func Markdown(record *models.TestRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# KS Test %s\n\n", record.ID.String())
	fmt.Fprintf(&b, "Run at %s\n\n", record.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## Result\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Alternative | %s |\n", record.Alternative)
	fmt.Fprintf(&b, "| Statistic | %.6f |\n", record.Statistic)
	fmt.Fprintf(&b, "| Location | %.6f |\n", record.Location)
	fmt.Fprintf(&b, "| p-value | %.6f |\n", record.PValue)
	fmt.Fprintf(&b, "| Iterations | %d |\n", record.Iterations)
	fmt.Fprintf(&b, "| Seed | %d |\n", record.Seed)
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Resampling policy\n\n")
	fmt.Fprintf(&b, "- Ratio-preserving: %t\n", record.Policy.RespectRatio)
	fmt.Fprintf(&b, "- With replacement: %t\n", record.Policy.Replacement)
	if record.Policy.FixedSize > 0 {
		fmt.Fprintf(&b, "- Fixed draw size: %d\n", record.Policy.FixedSize)
	}
	fmt.Fprintf(&b, "\n")

	if record.Sample1 != nil && record.Sample2 != nil {
		fmt.Fprintf(&b, "## Samples\n\n")
		fmt.Fprintf(&b, "| | n | mean | std | min | median | max |\n|---|---|---|---|---|---|---|\n")
		writeSummaryRow(&b, "data1", record)
		writeSummaryRow(&b, "data2", record)
		fmt.Fprintf(&b, "\n")
	}

	if record.ExportPath != "" {
		fmt.Fprintf(&b, "Workbook: `%s`\n", record.ExportPath)
	}

	return b.String()
}

func writeSummaryRow(b *strings.Builder, name string, record *models.TestRecord) {
	s := record.Sample1
	if name == "data2" {
		s = record.Sample2
	}
	fmt.Fprintf(b, "| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
		name, s.Size, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
}

// HTML renders the markdown summary to HTML for the report endpoint.
func HTML(record *models.TestRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(record)), p, renderer)
}
