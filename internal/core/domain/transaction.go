package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger row allocating part of a receipt to
// one fee particular. RunningBalance is the amount still unallocated from
// the receipt's total after this row was written; it is informational, not
// authoritative.
type Transaction struct {
	TransactionID  string          `json:"transactionID"`
	ReceiptID      string          `json:"receiptID"`
	ParticularID   string          `json:"particularID"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}
