package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// TransactionResponse defines the data returned for one ledger row.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	ReceiptID      string          `json:"receiptID"`
	ParticularID   string          `json:"particularID"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// FeeStatusResponse defines the data returned for a fee status snapshot.
type FeeStatusResponse struct {
	StatusID  string          `json:"statusID"`
	StudentID string          `json:"studentID"`
	TermID    string          `json:"termID"`
	ModuleID  string          `json:"moduleID"`
	Status    string          `json:"status"`
	Arrears   decimal.Decimal `json:"arrears"`
	Purpose   string          `json:"purpose"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ParticularBalanceResponse is one line of a student statement: a billed
// particular with what has been paid against it so far.
type ParticularBalanceResponse struct {
	ParticularID string          `json:"particularID"`
	Name         string          `json:"name"`
	AccountID    string          `json:"accountID"`
	Billed       decimal.Decimal `json:"billed"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
}

// StudentStatementResponse is the read-only statement surface consumed by
// reporting collaborators.
type StudentStatementResponse struct {
	StudentID    string                      `json:"studentID"`
	TermID       string                      `json:"termID"`
	Particulars  []ParticularBalanceResponse `json:"particulars"`
	Transactions []TransactionResponse       `json:"transactions"`
	TotalBilled  decimal.Decimal             `json:"totalBilled"`
	TotalPaid    decimal.Decimal             `json:"totalPaid"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  t.TransactionID,
		ReceiptID:      t.ReceiptID,
		ParticularID:   t.ParticularID,
		Amount:         t.Amount,
		RunningBalance: t.RunningBalance,
		CreatedAt:      t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToFeeStatusResponse converts a domain.FeeStatus to its DTO.
func ToFeeStatusResponse(s *domain.FeeStatus) FeeStatusResponse {
	return FeeStatusResponse{
		StatusID:  s.StatusID,
		StudentID: s.StudentID,
		TermID:    s.TermID,
		ModuleID:  s.ModuleID,
		Status:    string(s.Status),
		Arrears:   s.Arrears,
		Purpose:   s.Purpose,
		CreatedAt: s.CreatedAt,
	}
}

// ToFeeStatusResponses converts a slice of domain.FeeStatus to DTOs.
func ToFeeStatusResponses(statuses []domain.FeeStatus) []FeeStatusResponse {
	responses := make([]FeeStatusResponse, len(statuses))
	for i := range statuses {
		responses[i] = ToFeeStatusResponse(&statuses[i])
	}
	return responses
}
