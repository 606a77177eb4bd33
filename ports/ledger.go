package ports

import (
	"context"

	"ksboot/domain/core"
	"ksboot/models"
)

// TestLedgerPort persists completed test runs
type TestLedgerPort interface {
	Save(ctx context.Context, record *models.TestRecord) error
	GetByID(ctx context.Context, id core.ID) (*models.TestRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.TestRecord, error)
}
