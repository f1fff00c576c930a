package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is an immutable record of money received for a student in a term.
// It is created once by the payment-confirmation boundary after the gateway
// verifies payment; the allocation engine never mutates it.
type Receipt struct {
	ReceiptID string          `json:"receiptID"`
	TransID   string          `json:"transID"` // external gateway reference
	StudentID string          `json:"studentID"`
	WalletID  string          `json:"walletID"`
	TermID    string          `json:"termID"`
	Amount    decimal.Decimal `json:"amount"`
	Cashier   string          `json:"cashier"`
	Narration string          `json:"narration"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ReceiptAllocation links a receipt to an invoice it (partially) settled.
// One receipt may settle several invoices; the rows record how the amount
// was split across them.
type ReceiptAllocation struct {
	AllocationID string          `json:"allocationID"`
	ReceiptID    string          `json:"receiptID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Wallet is a payment channel (paybill, bank card, cash desk). Owned by the
// gateway-integration collaborator; read-only here.
type Wallet struct {
	WalletID string `json:"walletID"`
	Name     string `json:"name"`
	Paybill  string `json:"paybill"`
	Blocked  bool   `json:"blocked"`
	AuditFields
}
