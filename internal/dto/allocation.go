package dto

import (
	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// InvoiceAllocation describes how much of a receipt was applied to one
// invoice during an allocation run.
type InvoiceAllocation struct {
	InvoiceID string          `json:"invoiceID"`
	InvoiceNo string          `json:"invoiceNo"`
	Amount    decimal.Decimal `json:"amount"`
	Settled   bool            `json:"settled"`
}

// AllocationResult is the outcome of allocating one receipt across a
// student's pending invoices.
type AllocationResult struct {
	ReceiptID         string                `json:"receiptID"`
	AllocatedInvoices []InvoiceAllocation   `json:"allocatedInvoices"`
	OverpaymentAmount decimal.Decimal       `json:"overpaymentAmount"`
	FinalStatus       domain.FeeStatusValue `json:"finalStatus"`
}
