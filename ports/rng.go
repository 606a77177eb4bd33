package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// WorkerStreams creates n independent deterministic streams for a named
	// operation, one per calibration worker. Distinct streams avoid
	// correlated resamples when iterations run in parallel.
	WorkerStreams(ctx context.Context, name string, seed int64, n int) ([]*rand.Rand, error)
}
