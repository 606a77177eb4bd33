package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ksboot/adapters/excel"
	"ksboot/adapters/rng"
	"ksboot/app"
	"ksboot/domain/stats"
	"ksboot/internal"
	"ksboot/internal/config"
	"ksboot/internal/report"
)

func main() {
	var (
		file1        = flag.String("data1", "", "path to first sample, one value per line")
		file2        = flag.String("data2", "", "path to second sample, one value per line")
		alternative  = flag.String("alternative", "A_LESS_THAN_B", "direction: A_LESS_THAN_B or A_GREATER_THAN_B")
		iterations   = flag.Int("iterations", 1000, "resampling iterations")
		seed         = flag.Int64("seed", 0, "RNG seed, 0 picks a time-based seed")
		workers      = flag.Int("workers", 1, "parallel calibration workers")
		fixedSize    = flag.Int("fixed-size", 0, "fixed resample size per sample, 0 keeps the original ratio")
		replacement  = flag.Bool("replacement", false, "resample with replacement")
		exportPath   = flag.String("export", "", "write an xlsx workbook with the ECDF trace and null distribution")
		markdownOut  = flag.Bool("report", false, "print a markdown report instead of the summary line")
	)
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	if *file1 == "" || *file2 == "" {
		flag.Usage()
		os.Exit(2)
	}

	data1, err := readSample(*file1)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file1, err)
	}
	data2, err := readSample(*file2)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file2, err)
	}

	defaults := config.BootstrapConfig{Iterations: *iterations, Workers: *workers, Seed: *seed}
	exportCfg := config.ExportConfig{}
	var exporter *excel.Exporter
	if *exportPath != "" {
		exporter = excel.NewExporter()
		exportCfg.Enabled = true
		exportCfg.Dir = "."
	}

	service := app.NewTestService(nil, exporter, rng.NewAdapter(), defaults, exportCfg, internal.NewDefaultLogger())

	req := app.TestRequest{
		Data1:       data1,
		Data2:       data2,
		Alternative: *alternative,
		Iterations:  *iterations,
		Seed:        *seed,
		Workers:     *workers,
		ExportName:  *exportPath,
	}
	if *fixedSize > 0 || *replacement {
		policy := stats.ResamplingPolicy{
			RespectRatio: *fixedSize == 0,
			Replacement:  *replacement,
			FixedSize:    *fixedSize,
			Iterations:   *iterations,
		}
		req.Policy = &policy
	}

	record, err := service.RunTest(context.Background(), req)
	if err != nil {
		log.Fatalf("Test failed: %v", err)
	}

	if *markdownOut {
		fmt.Print(report.Markdown(record))
		return
	}

	fmt.Printf("alternative=%s statistic=%.6f location=%.6f pvalue=%.6f iterations=%d seed=%d\n",
		record.Alternative, record.Statistic, record.Location, record.PValue, record.Iterations, record.Seed)
	if record.ExportPath != "" {
		fmt.Printf("workbook=%s\n", record.ExportPath)
	}
}

// readSample parses one observation per line; blank lines and lines starting
// with # are skipped.
func readSample(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data []float64
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		data = append(data, value)
	}
	return data, nil
}
