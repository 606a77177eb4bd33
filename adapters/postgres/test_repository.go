package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ksboot/domain/core"
	"ksboot/domain/stats"
	"ksboot/internal/errors"
	"ksboot/internal/profiling"
	"ksboot/models"
	"ksboot/ports"
)

// TestRepositoryImpl implements TestLedgerPort for PostgreSQL
type TestRepositoryImpl struct {
	db *sqlx.DB
}

// NewTestRepository creates a new PostgreSQL test ledger
func NewTestRepository(db *sqlx.DB) ports.TestLedgerPort {
	return &TestRepositoryImpl{db: db}
}

// Connect opens a PostgreSQL connection pool from a URL
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS ks_test_results (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	alternative TEXT NOT NULL,
	statistic DOUBLE PRECISION NOT NULL,
	location DOUBLE PRECISION NOT NULL,
	pvalue DOUBLE PRECISION NOT NULL,
	iterations INTEGER NOT NULL,
	policy JSONB NOT NULL,
	seed BIGINT NOT NULL,
	workers INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	sample1 JSONB,
	sample2 JSONB,
	export_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_ks_test_results_created_at ON ks_test_results (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ks_test_results_fingerprint ON ks_test_results (fingerprint);
`

// Migrate applies the ledger schema
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to apply ks_test_results schema")
	}
	return nil
}

// Save inserts or updates a test record
func (r *TestRepositoryImpl) Save(ctx context.Context, record *models.TestRecord) error {
	policyJSON, err := json.Marshal(record.Policy)
	if err != nil {
		return errors.Wrap(err, "failed to marshal resampling policy")
	}
	sample1JSON, err := marshalSummary(record.Sample1)
	if err != nil {
		return err
	}
	sample2JSON, err := marshalSummary(record.Sample2)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ks_test_results (
			id, created_at, alternative, statistic, location, pvalue,
			iterations, policy, seed, workers, fingerprint,
			sample1, sample2, export_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			statistic = EXCLUDED.statistic,
			location = EXCLUDED.location,
			pvalue = EXCLUDED.pvalue,
			iterations = EXCLUDED.iterations,
			policy = EXCLUDED.policy,
			export_path = EXCLUDED.export_path`,
		record.ID.String(), record.CreatedAt, string(record.Alternative),
		record.Statistic, record.Location, record.PValue,
		record.Iterations, policyJSON, record.Seed, record.Workers,
		record.Fingerprint.String(), sample1JSON, sample2JSON, record.ExportPath)
	if err != nil {
		return errors.Wrap(err, "failed to save test record")
	}
	return nil
}

// GetByID retrieves a test record by its identifier
func (r *TestRepositoryImpl) GetByID(ctx context.Context, id core.ID) (*models.TestRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, alternative, statistic, location, pvalue,
			   iterations, policy, seed, workers, fingerprint,
			   sample1, sample2, export_path
		FROM ks_test_results
		WHERE id = $1`, id.String())

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("test record")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load test record")
	}
	return record, nil
}

// List returns records ordered by creation time, newest first
func (r *TestRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*models.TestRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, alternative, statistic, location, pvalue,
			   iterations, policy, seed, workers, fingerprint,
			   sample1, sample2, export_path
		FROM ks_test_results
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list test records")
	}
	defer rows.Close()

	var records []*models.TestRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan test record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate test records")
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.TestRecord, error) {
	var record models.TestRecord
	var id, alternative, fingerprint string
	var policyJSON []byte
	var sample1JSON, sample2JSON []byte

	err := row.Scan(&id, &record.CreatedAt, &alternative,
		&record.Statistic, &record.Location, &record.PValue,
		&record.Iterations, &policyJSON, &record.Seed, &record.Workers,
		&fingerprint, &sample1JSON, &sample2JSON, &record.ExportPath)
	if err != nil {
		return nil, err
	}

	record.ID = core.ID(id)
	record.Alternative = stats.Alternative(alternative)
	record.Fingerprint = core.SampleFingerprint(fingerprint)
	if err := json.Unmarshal(policyJSON, &record.Policy); err != nil {
		return nil, err
	}
	if record.Sample1, err = unmarshalSummary(sample1JSON); err != nil {
		return nil, err
	}
	if record.Sample2, err = unmarshalSummary(sample2JSON); err != nil {
		return nil, err
	}
	return &record, nil
}

func marshalSummary(summary *profiling.DistributionSummary) ([]byte, error) {
	if summary == nil {
		return nil, nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal sample summary")
	}
	return data, nil
}

func unmarshalSummary(data []byte) (*profiling.DistributionSummary, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var summary profiling.DistributionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
