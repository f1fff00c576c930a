package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// CreateInvoiceRequest creates an invoice from an explicit set of fee
// particulars. Deciding which particulars apply to the student is the
// administration collaborator's business, not this service's.
type CreateInvoiceRequest struct {
	StudentID     string   `json:"studentID" binding:"required"`
	TermID        string   `json:"termID" binding:"required"`
	ParticularIDs []string `json:"particularIDs" binding:"required,min=1"`
}

// UpdateInvoiceParticularsRequest attaches and/or detaches particulars from
// an invoice's narration. The invoice amount is recomputed in the same call.
type UpdateInvoiceParticularsRequest struct {
	AttachIDs []string `json:"attachIDs"`
	DetachIDs []string `json:"detachIDs"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID  string          `json:"invoiceID"`
	InvoiceNo  string          `json:"invoiceNo"`
	StudentID  string          `json:"studentID"`
	TermID     string          `json:"termID"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	State      string          `json:"state"`
	IsCleared  bool            `json:"isCleared"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// InvoiceBalanceResponse reports the unpaid remainder of an invoice.
type InvoiceBalanceResponse struct {
	InvoiceID  string          `json:"invoiceID"`
	InvoiceNo  string          `json:"invoiceNo"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	BalanceDue decimal.Decimal `json:"balanceDue"`
	State      string          `json:"state"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(i *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:  i.InvoiceID,
		InvoiceNo:  i.InvoiceNo,
		StudentID:  i.StudentID,
		TermID:     i.TermID,
		Amount:     i.Amount,
		PaidAmount: i.PaidAmount,
		State:      string(i.State),
		IsCleared:  i.IsCleared,
		CreatedAt:  i.CreatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to []InvoiceResponse.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// ToInvoiceBalanceResponse converts a domain.Invoice to its balance view.
func ToInvoiceBalanceResponse(i *domain.Invoice) InvoiceBalanceResponse {
	return InvoiceBalanceResponse{
		InvoiceID:  i.InvoiceID,
		InvoiceNo:  i.InvoiceNo,
		Amount:     i.Amount,
		PaidAmount: i.PaidAmount,
		BalanceDue: i.BalanceDue(),
		State:      string(i.State),
	}
}
