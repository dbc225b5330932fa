// Package audit persists terminal scan outcomes to PostgreSQL. Writes are
// best-effort: a failed insert is logged by the caller and never fails the
// scan itself.
package audit

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pbes/hscode-service/internal/scan"
	"github.com/pbes/hscode-service/shared/postgresql"
)

// Storage writes scan audit entries.
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates an audit storage over an established connection.
func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{db: pg.GetDB()}
}

// RecordScan inserts one terminal scan outcome.
func (s *Storage) RecordScan(ctx context.Context, record scan.AuditRecord) error {
	query := `
		INSERT INTO scan_audit (
			job_id, request_id, hs_code, description,
			status, error, created_at, completed_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.JobID,
		record.RequestID,
		record.HSCode,
		record.Description,
		record.Status,
		record.Error,
		record.CreatedAt,
		record.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record scan audit entry: %w", err)
	}

	return nil
}
