package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxFeeStructureRepository struct {
	BaseRepository
}

// newPgxFeeStructureRepository creates a new repository for fee particulars.
func newPgxFeeStructureRepository(pool *pgxpool.Pool) portsrepo.FeeStructureRepositoryFacade {
	return &PgxFeeStructureRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeStructureRepositoryFacade = (*PgxFeeStructureRepository)(nil)

const particularColumns = `particular_id, name, course_id, module_id, term_id, account_id, amount, target, created_at, created_by, last_updated_at, last_updated_by`

// FindParticularsByStructure retrieves the fee structure defined for a
// course/module/term combination.
func (r *PgxFeeStructureRepository) FindParticularsByStructure(ctx context.Context, courseID, moduleID, termID string) ([]domain.FeeParticular, error) {
	query := `
		SELECT ` + particularColumns + `
		FROM fee_particulars
		WHERE course_id = $1 AND module_id = $2 AND term_id = $3
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, courseID, moduleID, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee structure: %w", err)
	}
	defer rows.Close()
	return collectParticulars(rows)
}

// FindParticularsByInvoiceID retrieves the particulars attached to an
// invoice's narration.
func (r *PgxFeeStructureRepository) FindParticularsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.FeeParticular, error) {
	query := `
		SELECT p.particular_id, p.name, p.course_id, p.module_id, p.term_id, p.account_id, p.amount, p.target,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM fee_particulars p
		JOIN invoice_particulars ip ON ip.particular_id = p.particular_id
		WHERE ip.invoice_id = $1
		ORDER BY p.name;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice particulars: %w", err)
	}
	defer rows.Close()
	return collectParticulars(rows)
}

// FindParticularsByIDs retrieves specific particulars keyed by ID.
func (r *PgxFeeStructureRepository) FindParticularsByIDs(ctx context.Context, particularIDs []string) ([]domain.FeeParticular, error) {
	if len(particularIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + particularColumns + `
		FROM fee_particulars
		WHERE particular_id = ANY($1)
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, particularIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query particulars by IDs: %w", err)
	}
	defer rows.Close()
	return collectParticulars(rows)
}

// SaveParticular inserts a new fee particular.
func (r *PgxFeeStructureRepository) SaveParticular(ctx context.Context, particular domain.FeeParticular) error {
	query := `
		INSERT INTO fee_particulars (` + particularColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		particular.ParticularID,
		particular.Name,
		particular.CourseID,
		particular.ModuleID,
		particular.TermID,
		particular.AccountID,
		particular.Amount,
		string(particular.Target),
		particular.CreatedAt,
		particular.CreatedBy,
		particular.LastUpdatedAt,
		particular.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fee particular %s already exists", apperrors.ErrDuplicate, particular.Name)
		}
		return fmt.Errorf("failed to save fee particular %s: %w", particular.ParticularID, err)
	}
	return nil
}

func collectParticulars(rows pgx.Rows) ([]domain.FeeParticular, error) {
	var particulars []domain.FeeParticular
	for rows.Next() {
		var p domain.FeeParticular
		var target string
		if err := rows.Scan(
			&p.ParticularID,
			&p.Name,
			&p.CourseID,
			&p.ModuleID,
			&p.TermID,
			&p.AccountID,
			&p.Amount,
			&target,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.LastUpdatedAt,
			&p.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fee particular row: %w", err)
		}
		p.Target = domain.TargetScope(target)
		particulars = append(particulars, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee particular rows: %w", err)
	}
	return particulars, nil
}
