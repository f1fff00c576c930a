package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// CreateReceiptRequest records a confirmed payment. The gateway collaborator
// has already verified the payment; this input is trusted.
type CreateReceiptRequest struct {
	TransID   string          `json:"transID" binding:"required"`
	StudentID string          `json:"studentID" binding:"required"`
	WalletID  string          `json:"walletID" binding:"required"`
	TermID    string          `json:"termID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Cashier   string          `json:"cashier"`
	Narration string          `json:"narration"`
	PaidAt    *time.Time      `json:"paidAt"`
}

// ReceiptResponse defines the data returned for a receipt.
type ReceiptResponse struct {
	ReceiptID string          `json:"receiptID"`
	TransID   string          `json:"transID"`
	StudentID string          `json:"studentID"`
	WalletID  string          `json:"walletID"`
	TermID    string          `json:"termID"`
	Amount    decimal.Decimal `json:"amount"`
	Cashier   string          `json:"cashier"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToReceiptResponse converts a domain.Receipt to ReceiptResponse DTO.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID: r.ReceiptID,
		TransID:   r.TransID,
		StudentID: r.StudentID,
		WalletID:  r.WalletID,
		TermID:    r.TermID,
		Amount:    r.Amount,
		Cashier:   r.Cashier,
		PaidAt:    r.PaidAt,
		CreatedAt: r.CreatedAt,
	}
}
