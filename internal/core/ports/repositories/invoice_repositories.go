package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves a single invoice by its identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindPendingInvoicesByStudent retrieves a student's Pending invoices
	// ordered by creation time ascending (oldest debt first).
	FindPendingInvoicesByStudent(ctx context.Context, studentID string) ([]domain.Invoice, error)

	// ListInvoicesByStudent retrieves a student's invoices, optionally
	// filtered by state, newest first.
	ListInvoicesByStudent(ctx context.Context, studentID string, state *domain.InvoiceState) ([]domain.Invoice, error)

	// CountInvoices returns the total number of invoices ever created. Used
	// for invoice number sequencing.
	CountInvoices(ctx context.Context) (int64, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and its attached particulars in one
	// database transaction.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, particularIDs []string) error

	// UpdateInvoiceParticulars attaches and detaches particulars and writes
	// the recomputed amount, all in one database transaction.
	UpdateInvoiceParticulars(ctx context.Context, invoiceID string, attachIDs, detachIDs []string, newAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// ApplySettlement atomically adds allocated to the invoice's paid amount,
	// flipping state to Cleared when paid_amount reaches amount exactly, and
	// returns the updated invoice. Returns apperrors.ErrNotFound if the
	// invoice was deleted concurrently.
	ApplySettlement(ctx context.Context, invoiceID string, allocated decimal.Decimal, updatedAt time.Time) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
