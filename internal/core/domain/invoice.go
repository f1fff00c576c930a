package domain

import "github.com/shopspring/decimal"

// InvoiceState indicates the settlement state of an invoice.
type InvoiceState string

const (
	InvoicePending InvoiceState = "Pending"
	InvoiceCleared InvoiceState = "Cleared"
)

// Invoice is the set of fee particulars billed to a student for a term,
// with accumulated payment state. Amount must equal the sum of the attached
// particulars; RecomputeAmount is called explicitly at every mutation site
// that attaches or detaches particulars.
type Invoice struct {
	InvoiceID  string          `json:"invoiceID"`
	InvoiceNo  string          `json:"invoiceNo"`
	StudentID  string          `json:"studentID"`
	TermID     string          `json:"termID"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	State      InvoiceState    `json:"state"`
	IsCleared  bool            `json:"isCleared"`
	AuditFields
}

// BalanceDue returns the unpaid remainder of the invoice.
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// RecomputeAmount resets the invoice total from its attached particulars.
func (i *Invoice) RecomputeAmount(particulars []FeeParticular) {
	total := decimal.Zero
	for _, p := range particulars {
		total = total.Add(p.Amount)
	}
	i.Amount = total
}
