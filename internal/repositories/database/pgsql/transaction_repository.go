package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the append-only
// fee ledger.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, receipt_id, particular_id, amount, running_balance, created_at`

// SumPaidByParticular sums transaction amounts per fee particular across
// every receipt the student has for the term.
func (r *PgxTransactionRepository) SumPaidByParticular(ctx context.Context, studentID, termID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT t.particular_id, SUM(t.amount)
		FROM transactions t
		JOIN receipts rc ON rc.receipt_id = t.receipt_id
		WHERE rc.student_id = $1 AND rc.term_id = $2
		GROUP BY t.particular_id;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum paid amounts for student %s: %w", studentID, err)
	}
	defer rows.Close()

	paid := make(map[string]decimal.Decimal)
	for rows.Next() {
		var particularID string
		var total decimal.Decimal
		if err := rows.Scan(&particularID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan paid sum row: %w", err)
		}
		paid[particularID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating paid sum rows: %w", err)
	}
	return paid, nil
}

// FindTransactionsByReceiptID retrieves the ledger rows written for one
// receipt, in write order.
func (r *PgxTransactionRepository) FindTransactionsByReceiptID(ctx context.Context, receiptID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE receipt_id = $1
		ORDER BY created_at ASC, running_balance DESC;
	`
	rows, err := r.Pool.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for receipt %s: %w", receiptID, err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsByStudentTerm retrieves every ledger row for a student's
// term, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.receipt_id, t.particular_id, t.amount, t.running_balance, t.created_at
		FROM transactions t
		JOIN receipts rc ON rc.receipt_id = t.receipt_id
		WHERE rc.student_id = $1 AND rc.term_id = $2
		ORDER BY t.created_at ASC, t.running_balance DESC;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for student %s: %w", studentID, err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// HasTransactionsForReceipt reports whether any ledger rows exist for the
// receipt.
func (r *PgxTransactionRepository) HasTransactionsForReceipt(ctx context.Context, receiptID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE receipt_id = $1);`,
		receiptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transactions for receipt %s: %w", receiptID, err)
	}
	return exists, nil
}

// SaveTransactions appends the given ledger rows in one batch.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, txn := range transactions {
		batch.Queue(query,
			txn.TransactionID,
			txn.ReceiptID,
			txn.ParticularID,
			txn.Amount,
			txn.RunningBalance,
			txn.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute transaction batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.TransactionID,
			&txn.ReceiptID,
			&txn.ParticularID,
			&txn.Amount,
			&txn.RunningBalance,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}
