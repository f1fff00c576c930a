package services

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// ReceiptSvcFacade records confirmed payments and serves receipt queries.
type ReceiptSvcFacade interface {
	// RecordReceipt persists a confirmed payment as an immutable receipt.
	// Intake is idempotent on the external transaction reference: replays
	// return apperrors.ErrDuplicate.
	RecordReceipt(ctx context.Context, req dto.CreateReceiptRequest) (*domain.Receipt, error)

	// GetReceiptByID retrieves a receipt.
	GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// GetReceiptTransactions retrieves the ledger rows written for a receipt.
	GetReceiptTransactions(ctx context.Context, receiptID string) ([]domain.Transaction, error)
}
