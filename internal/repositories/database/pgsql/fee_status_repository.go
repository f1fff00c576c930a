package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxFeeStatusRepository struct {
	BaseRepository
}

// newPgxFeeStatusRepository creates a new repository for append-only fee
// status snapshots.
func newPgxFeeStatusRepository(pool *pgxpool.Pool) portsrepo.FeeStatusRepositoryFacade {
	return &PgxFeeStatusRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeStatusRepositoryFacade = (*PgxFeeStatusRepository)(nil)

const feeStatusColumns = `status_id, student_id, term_id, module_id, status, arrears, purpose, created_at`

// FindLatestStatusByStudent retrieves the most recent snapshot for the
// student.
func (r *PgxFeeStatusRepository) FindLatestStatusByStudent(ctx context.Context, studentID string) (*domain.FeeStatus, error) {
	query := `
		SELECT ` + feeStatusColumns + `
		FROM fee_statuses
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	status, err := scanFeeStatus(r.Pool.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest fee status for student %s: %w", studentID, err)
	}
	return status, nil
}

// ListStatusesByStudent retrieves the full snapshot history, newest first.
func (r *PgxFeeStatusRepository) ListStatusesByStudent(ctx context.Context, studentID string) ([]domain.FeeStatus, error) {
	query := `
		SELECT ` + feeStatusColumns + `
		FROM fee_statuses
		WHERE student_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee statuses for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var statuses []domain.FeeStatus
	for rows.Next() {
		status, err := scanFeeStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee status row: %w", err)
		}
		statuses = append(statuses, *status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee status rows: %w", err)
	}
	return statuses, nil
}

// SaveFeeStatus appends a new snapshot row.
func (r *PgxFeeStatusRepository) SaveFeeStatus(ctx context.Context, status domain.FeeStatus) error {
	query := `
		INSERT INTO fee_statuses (` + feeStatusColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		status.StatusID,
		status.StudentID,
		status.TermID,
		status.ModuleID,
		string(status.Status),
		status.Arrears,
		status.Purpose,
		status.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fee status %s: %w", status.StatusID, err)
	}
	return nil
}

func scanFeeStatus(row pgx.Row) (*domain.FeeStatus, error) {
	var status domain.FeeStatus
	var value string
	err := row.Scan(
		&status.StatusID,
		&status.StudentID,
		&status.TermID,
		&status.ModuleID,
		&value,
		&status.Arrears,
		&status.Purpose,
		&status.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	status.Status = domain.FeeStatusValue(value)
	return &status, nil
}
