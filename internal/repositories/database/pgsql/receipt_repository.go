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

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for receipts and their
// invoice allocation links.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

const receiptColumns = `receipt_id, trans_id, student_id, wallet_id, term_id, amount, cashier, narration, paid_at, created_at`

// FindReceiptByID retrieves a receipt by its ID.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE receipt_id = $1;
	`
	receipt, err := scanReceipt(r.Pool.QueryRow(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by ID %s: %w", receiptID, err)
	}
	return receipt, nil
}

// FindReceiptByTransID retrieves a receipt by its external gateway reference.
func (r *PgxReceiptRepository) FindReceiptByTransID(ctx context.Context, transID string) (*domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE trans_id = $1;
	`
	receipt, err := scanReceipt(r.Pool.QueryRow(ctx, query, transID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by trans ID %s: %w", transID, err)
	}
	return receipt, nil
}

// ListReceiptsByStudentTerm retrieves a student's receipts for a term,
// oldest first.
func (r *PgxReceiptRepository) ListReceiptsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE student_id = $1 AND term_id = $2
		ORDER BY paid_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt rows: %w", err)
	}
	return receipts, nil
}

// SaveReceipt inserts a new receipt. A unique index on trans_id enforces
// idempotent intake at the database level.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		receipt.ReceiptID,
		receipt.TransID,
		receipt.StudentID,
		receipt.WalletID,
		receipt.TermID,
		receipt.Amount,
		receipt.Cashier,
		receipt.Narration,
		receipt.PaidAt,
		receipt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: receipt for transaction %s already exists", apperrors.ErrDuplicate, receipt.TransID)
		}
		return fmt.Errorf("failed to save receipt %s: %w", receipt.ReceiptID, err)
	}
	return nil
}

// SaveReceiptAllocation inserts one receipt-to-invoice allocation link.
func (r *PgxReceiptRepository) SaveReceiptAllocation(ctx context.Context, allocation domain.ReceiptAllocation) error {
	query := `
		INSERT INTO receipt_allocations (allocation_id, receipt_id, invoice_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		allocation.AllocationID,
		allocation.ReceiptID,
		allocation.InvoiceID,
		allocation.Amount,
		allocation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save receipt allocation %s: %w", allocation.AllocationID, err)
	}
	return nil
}

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := row.Scan(
		&receipt.ReceiptID,
		&receipt.TransID,
		&receipt.StudentID,
		&receipt.WalletID,
		&receipt.TermID,
		&receipt.Amount,
		&receipt.Cashier,
		&receipt.Narration,
		&receipt.PaidAt,
		&receipt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
