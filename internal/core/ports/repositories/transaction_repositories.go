package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// TransactionReader defines read operations for the fee ledger.
type TransactionReader interface {
	// SumPaidByParticular sums all transaction amounts per fee particular
	// across every receipt the student has for the term. Particulars never
	// paid are absent from the result.
	SumPaidByParticular(ctx context.Context, studentID, termID string) (map[string]decimal.Decimal, error)

	// FindTransactionsByReceiptID retrieves the ledger rows written for one
	// receipt, in write order.
	FindTransactionsByReceiptID(ctx context.Context, receiptID string) ([]domain.Transaction, error)

	// ListTransactionsByStudentTerm retrieves every ledger row for a
	// student's term, oldest first.
	ListTransactionsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Transaction, error)

	// HasTransactionsForReceipt reports whether any ledger rows exist for
	// the receipt. This is the allocation idempotency guard.
	HasTransactionsForReceipt(ctx context.Context, receiptID string) (bool, error)
}

// TransactionWriter defines write operations for the fee ledger. Rows are
// append-only; there are no update or delete operations.
type TransactionWriter interface {
	// SaveTransactions appends the given rows in one batch.
	SaveTransactions(ctx context.Context, transactions []domain.Transaction) error
}

// TransactionRepositoryFacade combines all ledger repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
