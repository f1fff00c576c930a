package services

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// InvoiceSvcFacade creates invoices and serves invoice queries.
type InvoiceSvcFacade interface {
	// CreateInvoice creates a Pending invoice from an explicit set of fee
	// particulars, computes its amount from them and posts the billed total
	// to the student's fee status as a negative arrears delta.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// UpdateParticulars attaches/detaches particulars and recomputes the
	// invoice amount at the mutation site.
	UpdateParticulars(ctx context.Context, invoiceID string, req dto.UpdateInvoiceParticularsRequest, updaterUserID string) (*domain.Invoice, error)

	// ListStudentInvoices retrieves a student's invoices, optionally
	// filtered by state.
	ListStudentInvoices(ctx context.Context, studentID string, state *domain.InvoiceState) ([]domain.Invoice, error)
}
