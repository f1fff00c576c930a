package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// receiptService records confirmed payments. The gateway collaborator has
// already verified the money; this service only guards against replays and
// obviously broken input.
type receiptService struct {
	receiptRepo     portsrepo.ReceiptRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	studentRepo     portsrepo.StudentReader
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	transactionRepo portsrepo.TransactionReader,
	studentRepo portsrepo.StudentReader,
) portssvc.ReceiptSvcFacade {
	return &receiptService{
		receiptRepo:     receiptRepo,
		transactionRepo: transactionRepo,
		studentRepo:     studentRepo,
	}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

// RecordReceipt persists a confirmed payment as an immutable receipt.
func (s *receiptService) RecordReceipt(ctx context.Context, req dto.CreateReceiptRequest) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: receipt amount must be positive", apperrors.ErrValidation)
	}

	// Gateway confirmations can be redelivered; the external reference makes
	// intake idempotent.
	if existing, err := s.receiptRepo.FindReceiptByTransID(ctx, req.TransID); err == nil {
		logger.Warn("Duplicate receipt submission", slog.String("trans_id", req.TransID), slog.String("receipt_id", existing.ReceiptID))
		return existing, fmt.Errorf("%w: transaction %s already recorded", apperrors.ErrDuplicate, req.TransID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := s.studentRepo.FindStudentByID(ctx, req.StudentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", req.StudentID, err)
	}
	if _, err := s.studentRepo.FindTermByID(ctx, req.TermID); err != nil {
		return nil, fmt.Errorf("term %s: %w", req.TermID, err)
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	receipt := domain.Receipt{
		ReceiptID: uuid.NewString(),
		TransID:   req.TransID,
		StudentID: req.StudentID,
		WalletID:  req.WalletID,
		TermID:    req.TermID,
		Amount:    req.Amount,
		Cashier:   req.Cashier,
		Narration: req.Narration,
		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("saving receipt: %w", err)
	}

	logger.Info("Receipt recorded", slog.String("receipt_id", receipt.ReceiptID), slog.String("trans_id", receipt.TransID))
	return &receipt, nil
}

// GetReceiptByID retrieves a receipt.
func (s *receiptService) GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	return s.receiptRepo.FindReceiptByID(ctx, receiptID)
}

// GetReceiptTransactions retrieves the ledger rows written for a receipt.
func (s *receiptService) GetReceiptTransactions(ctx context.Context, receiptID string) ([]domain.Transaction, error) {
	if _, err := s.receiptRepo.FindReceiptByID(ctx, receiptID); err != nil {
		return nil, err
	}
	return s.transactionRepo.FindTransactionsByReceiptID(ctx, receiptID)
}
