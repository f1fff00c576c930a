package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and their
// attached particulars.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, invoice_no, student_id, term_id, amount, paid_amount, state, is_cleared, created_at, created_by, last_updated_at, last_updated_by`

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE invoice_id = $1;
	`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// FindPendingInvoicesByStudent retrieves a student's Pending invoices
// ordered by creation time ascending, so the oldest debt settles first.
func (r *PgxInvoiceRepository) FindPendingInvoicesByStudent(ctx context.Context, studentID string) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE student_id = $1 AND state = $2
		ORDER BY created_at ASC, invoice_no ASC;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, string(domain.InvoicePending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invoices for student %s: %w", studentID, err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListInvoicesByStudent retrieves a student's invoices, optionally filtered
// by state, newest first.
func (r *PgxInvoiceRepository) ListInvoicesByStudent(ctx context.Context, studentID string, state *domain.InvoiceState) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE student_id = $1 AND ($2::text IS NULL OR state = $2)
		ORDER BY created_at DESC;
	`
	var stateFilter *string
	if state != nil {
		s := string(*state)
		stateFilter = &s
	}
	rows, err := r.Pool.Query(ctx, query, studentID, stateFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for student %s: %w", studentID, err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// CountInvoices returns the total number of invoices ever created.
func (r *PgxInvoiceRepository) CountInvoices(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// SaveInvoice persists a new invoice and its attached particulars in one
// database transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, particularIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNo,
		invoice.StudentID,
		invoice.TermID,
		invoice.Amount,
		invoice.PaidAmount,
		string(invoice.State),
		invoice.IsCleared,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, invoice.InvoiceNo)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	linkQuery := `INSERT INTO invoice_particulars (invoice_id, particular_id) VALUES ($1, $2);`
	for _, particularID := range particularIDs {
		batch.Queue(linkQuery, invoice.InvoiceID, particularID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to attach particulars to invoice %s: %w", invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceParticulars attaches and detaches particulars and writes the
// recomputed amount, all in one database transaction.
func (r *PgxInvoiceRepository) UpdateInvoiceParticulars(ctx context.Context, invoiceID string, attachIDs, detachIDs []string, newAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if len(detachIDs) > 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM invoice_particulars WHERE invoice_id = $1 AND particular_id = ANY($2);`,
			invoiceID, detachIDs,
		)
		if err != nil {
			return fmt.Errorf("failed to detach particulars from invoice %s: %w", invoiceID, err)
		}
	}

	if len(attachIDs) > 0 {
		batch := &pgx.Batch{}
		linkQuery := `
			INSERT INTO invoice_particulars (invoice_id, particular_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;
		`
		for _, particularID := range attachIDs {
			batch.Queue(linkQuery, invoiceID, particularID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to attach particulars to invoice %s: %w", invoiceID, err)
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE invoices SET amount = $2, last_updated_by = $3, last_updated_at = $4 WHERE invoice_id = $1;`,
		invoiceID, newAmount, updatedBy, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s amount: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// ApplySettlement atomically adds allocated to the invoice's paid amount and
// flips state to Cleared when the paid amount reaches the invoice amount
// exactly. Returns the updated invoice.
func (r *PgxInvoiceRepository) ApplySettlement(ctx context.Context, invoiceID string, allocated decimal.Decimal, updatedAt time.Time) (*domain.Invoice, error) {
	query := `
		UPDATE invoices
		SET paid_amount = paid_amount + $2,
		    state = CASE WHEN paid_amount + $2 = amount THEN 'Cleared' ELSE state END,
		    is_cleared = CASE WHEN paid_amount + $2 = amount THEN TRUE ELSE is_cleared END,
		    last_updated_at = $3
		WHERE invoice_id = $1
		RETURNING ` + invoiceColumns + `;
	`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID, allocated, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to apply settlement to invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var invoice domain.Invoice
	var state string
	err := row.Scan(
		&invoice.InvoiceID,
		&invoice.InvoiceNo,
		&invoice.StudentID,
		&invoice.TermID,
		&invoice.Amount,
		&invoice.PaidAmount,
		&state,
		&invoice.IsCleared,
		&invoice.CreatedAt,
		&invoice.CreatedBy,
		&invoice.LastUpdatedAt,
		&invoice.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	invoice.State = domain.InvoiceState(state)
	return &invoice, nil
}

func collectInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}
