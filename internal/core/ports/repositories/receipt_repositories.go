package repositories

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// ReceiptReader defines read operations for receipts.
type ReceiptReader interface {
	// FindReceiptByID retrieves a single receipt by its identifier.
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// FindReceiptByTransID retrieves a receipt by its external gateway
	// reference. Used for idempotent intake of gateway confirmations.
	FindReceiptByTransID(ctx context.Context, transID string) (*domain.Receipt, error)

	// ListReceiptsByStudentTerm retrieves a student's receipts for a term,
	// oldest first.
	ListReceiptsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Receipt, error)
}

// ReceiptWriter defines write operations for receipts. Receipts are
// immutable; there are no update operations.
type ReceiptWriter interface {
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
	SaveReceiptAllocation(ctx context.Context, allocation domain.ReceiptAllocation) error
}

// ReceiptRepositoryFacade combines all receipt repository interfaces.
type ReceiptRepositoryFacade interface {
	ReceiptReader
	ReceiptWriter
}
