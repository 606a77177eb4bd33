package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"ksboot/domain/core"
	"ksboot/domain/stats"
	"ksboot/internal"
	"ksboot/internal/config"
	apperrors "ksboot/internal/errors"
	"ksboot/internal/kstest"
	"ksboot/internal/profiling"
	"ksboot/models"
	"ksboot/ports"
)

// TestService orchestrates a complete test run: statistic evaluation,
// resampling calibration, sample profiling, and the optional side channels
// (ledger persistence, workbook export).
type TestService struct {
	ledgerPort   ports.TestLedgerPort
	exporterPort ports.ExporterPort
	rngPort      ports.RNGPort
	defaults     config.BootstrapConfig
	exportCfg    config.ExportConfig
	logger       *internal.Logger
}

// TestRequest defines inputs for one KS test run. Zero-valued fields fall
// back to the service's configured defaults.
type TestRequest struct {
	Data1       []float64
	Data2       []float64
	Alternative string
	Policy      *stats.ResamplingPolicy
	Iterations  int
	Seed        int64
	Workers     int
	ExportName  string
}

// NewTestService creates a test service. Ledger and exporter ports may be
// nil; the run then skips persistence or export respectively.
func NewTestService(ledgerPort ports.TestLedgerPort, exporterPort ports.ExporterPort, rngPort ports.RNGPort, defaults config.BootstrapConfig, exportCfg config.ExportConfig, logger *internal.Logger) *TestService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TestService{
		ledgerPort:   ledgerPort,
		exporterPort: exporterPort,
		rngPort:      rngPort,
		defaults:     defaults,
		exportCfg:    exportCfg,
		logger:       logger,
	}
}

// RunTest executes the full pipeline and returns the persisted record.
func (s *TestService) RunTest(ctx context.Context, req TestRequest) (*models.TestRecord, error) {
	alternative, ok := stats.ParseAlternative(req.Alternative)
	if !ok {
		return nil, apperrors.InvalidAlternative(req.Alternative)
	}

	policy := s.resolvePolicy(req)
	seed := req.Seed
	if seed == 0 {
		seed = s.defaults.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := req.Workers
	if workers <= 0 {
		workers = s.defaults.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	trace, err := kstest.Trace(req.Data1, req.Data2, alternative)
	if err != nil {
		return nil, err
	}

	boot, err := s.calibrate(ctx, req, trace.Statistic, alternative, policy, seed, workers)
	if err != nil {
		return nil, err
	}

	record, err := s.buildRecord(req, alternative, policy, trace, boot, seed, workers)
	if err != nil {
		return nil, err
	}

	if s.exporterPort != nil && s.exportCfg.Enabled {
		path := s.exportPath(req.ExportName, record.ID)
		if err := s.exporterPort.ExportWorkbook(path, trace, boot.StatDistribution, trace.Statistic); err != nil {
			s.logger.Warn("workbook export failed for test %s: %v", record.ID, err)
		} else {
			record.ExportPath = path
		}
	}

	if s.ledgerPort != nil {
		if err := s.ledgerPort.Save(ctx, record); err != nil {
			return nil, apperrors.Wrap(err, "failed to persist test record")
		}
	}

	s.logger.Info("test %s complete: statistic=%.6f pvalue=%.6f iterations=%d workers=%d",
		record.ID, record.Statistic, record.PValue, policy.Iterations, workers)
	return record, nil
}

// GetTest loads one persisted run.
func (s *TestService) GetTest(ctx context.Context, id core.ID) (*models.TestRecord, error) {
	if s.ledgerPort == nil {
		return nil, apperrors.NotFound("test ledger not configured")
	}
	return s.ledgerPort.GetByID(ctx, id)
}

// ListTests pages through persisted runs, newest first.
func (s *TestService) ListTests(ctx context.Context, limit, offset int) ([]*models.TestRecord, error) {
	if s.ledgerPort == nil {
		return []*models.TestRecord{}, nil
	}
	return s.ledgerPort.List(ctx, limit, offset)
}

func (s *TestService) resolvePolicy(req TestRequest) stats.ResamplingPolicy {
	if req.Policy != nil {
		policy := *req.Policy
		if policy.Iterations <= 0 {
			policy.Iterations = s.iterationsFor(req)
		}
		return policy
	}
	return stats.DefaultPolicy(s.iterationsFor(req))
}

func (s *TestService) iterationsFor(req TestRequest) int {
	if req.Iterations > 0 {
		return req.Iterations
	}
	return s.defaults.Iterations
}

func (s *TestService) calibrate(ctx context.Context, req TestRequest, reference float64, alternative stats.Alternative, policy stats.ResamplingPolicy, seed int64, workers int) (*stats.BootstrapResult, error) {
	if workers == 1 {
		rng, err := s.rngPort.SeededStream(ctx, "calibration", seed)
		if err != nil {
			return nil, err
		}
		return kstest.Calibrate(req.Data1, req.Data2, reference, alternative, policy, rng)
	}
	rngs, err := s.rngPort.WorkerStreams(ctx, "calibration", seed, workers)
	if err != nil {
		return nil, err
	}
	return kstest.CalibrateParallel(ctx, req.Data1, req.Data2, reference, alternative, policy, rngs)
}

func (s *TestService) buildRecord(req TestRequest, alternative stats.Alternative, policy stats.ResamplingPolicy, trace *stats.ECDFTrace, boot *stats.BootstrapResult, seed int64, workers int) (*models.TestRecord, error) {
	sample1, err := profiling.Summarize(req.Data1)
	if err != nil {
		return nil, err
	}
	sample2, err := profiling.Summarize(req.Data2)
	if err != nil {
		return nil, err
	}
	return &models.TestRecord{
		ID:          core.NewID(),
		CreatedAt:   time.Now().UTC(),
		Alternative: alternative,
		Statistic:   trace.Statistic,
		Location:    trace.Location,
		PValue:      boot.PValue,
		Iterations:  policy.Iterations,
		Policy:      policy,
		Seed:        seed,
		Workers:     workers,
		Fingerprint: core.ComputeSampleFingerprint(req.Data1, req.Data2),
		Sample1:     sample1,
		Sample2:     sample2,
	}, nil
}

func (s *TestService) exportPath(name string, id core.ID) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = "ks_test_" + id.String()
	}
	if !strings.HasSuffix(base, ".xlsx") {
		base += ".xlsx"
	}
	return filepath.Join(s.exportCfg.Dir, base)
}
