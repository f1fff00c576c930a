package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/allocation"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// allocationService orchestrates the distribution of a receipt across the
// student's pending invoices: balance computation, the pure allocation
// engine, ledger recording, invoice settlement and the fee status snapshot.
type allocationService struct {
	feeMgr          portssvc.FeeManagerSvcFacade
	receiptRepo     portsrepo.ReceiptRepositoryFacade
	invoiceRepo     portsrepo.InvoiceRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	feeStatusRepo   portsrepo.FeeStatusRepositoryFacade
	studentRepo     portsrepo.StudentReader
	locks           *studentLockRegistry
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(
	feeMgr portssvc.FeeManagerSvcFacade,
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	feeStatusRepo portsrepo.FeeStatusRepositoryFacade,
	studentRepo portsrepo.StudentReader,
) portssvc.AllocationSvcFacade {
	return &allocationService{
		feeMgr:          feeMgr,
		receiptRepo:     receiptRepo,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		feeStatusRepo:   feeStatusRepo,
		studentRepo:     studentRepo,
		locks:           newStudentLockRegistry(),
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// AllocatePayment distributes a receipt across the student's pending
// invoices oldest-first and records the outcome.
//
// Write ordering per invoice: receipt-allocation link row, ledger rows,
// settlement update. Lookup and structure problems skip the invoice and
// continue; arithmetic invariant violations abort the whole job.
func (s *allocationService) AllocatePayment(ctx context.Context, receiptID string) (*dto.AllocationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("receipt_id", receiptID))

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, err)
	}

	if !s.locks.TryAcquire(domain.StudentID(receipt.StudentID)) {
		return nil, fmt.Errorf("%w: allocation in flight for student %s", apperrors.ErrConflict, receipt.StudentID)
	}
	defer s.locks.Release(domain.StudentID(receipt.StudentID))

	// Idempotency guard, checked under the student lock: a receipt that
	// already has ledger rows was fully processed by an earlier delivery.
	alreadyAllocated, err := s.transactionRepo.HasTransactionsForReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if alreadyAllocated {
		return nil, fmt.Errorf("%w: receipt %s is already allocated", apperrors.ErrDuplicate, receiptID)
	}

	student, err := s.studentRepo.FindStudentByID(ctx, receipt.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", receipt.StudentID, err)
	}

	priorities, err := s.feeMgr.Priorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading priorities: %w", err)
	}

	invoices, err := s.invoiceRepo.FindPendingInvoicesByStudent(ctx, receipt.StudentID)
	if err != nil {
		return nil, fmt.Errorf("pending invoices for student %s: %w", receipt.StudentID, err)
	}

	remaining := receipt.Amount
	allocatedInvoices := make([]dto.InvoiceAllocation, 0, len(invoices))

	for i := range invoices {
		invoice := &invoices[i]
		if !remaining.IsPositive() {
			break
		}
		due := invoice.BalanceDue()
		if !due.IsPositive() {
			continue
		}
		invoiceShare := decimal.Min(due, remaining)
		invoiceLogger := logger.With(slog.String("invoice_id", invoice.InvoiceID))

		entries, err := s.invoiceEntries(ctx, receipt.StudentID, invoice, priorities)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoFeeStructure) {
				invoiceLogger.Warn("No fee structure for invoice, skipping", slog.String("error", err.Error()))
			} else {
				invoiceLogger.Warn("Failed to resolve invoice balances, skipping", slog.String("error", err.Error()))
			}
			continue
		}

		allocated, err := allocation.Allocate(remaining, entries)
		if err != nil {
			invoiceLogger.Error("Allocation invariant violation",
				slog.String("error", err.Error()),
				slog.String("amount", remaining.String()),
				slog.Any("entries", entries),
			)
			return nil, err
		}

		if err := s.recordAllocation(ctx, receipt, invoice.InvoiceID, invoiceShare, entries, allocated); err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		settled := false
		updated, err := s.invoiceRepo.ApplySettlement(ctx, invoice.InvoiceID, invoiceShare, now)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("settling invoice %s: %w", invoice.InvoiceID, err)
			}
			// Deleted concurrently. The ledger rows stand; settlement is a
			// recoverable skip.
			invoiceLogger.Warn("Invoice deleted during allocation, skipping settlement")
		} else {
			settled = updated.IsCleared
		}

		remaining = remaining.Sub(invoiceShare)
		allocatedInvoices = append(allocatedInvoices, dto.InvoiceAllocation{
			InvoiceID: invoice.InvoiceID,
			InvoiceNo: invoice.InvoiceNo,
			Amount:    invoiceShare,
			Settled:   settled,
		})
	}

	// The snapshot records the original payment amount, not the remainder,
	// keyed by the receipt's external reference.
	status, err := appendFeeStatus(ctx, s.feeStatusRepo, student, receipt.TermID, receipt.Amount, receipt.TransID)
	if err != nil {
		return nil, fmt.Errorf("updating fee status: %w", err)
	}

	overpayment := decimal.Zero
	if remaining.IsPositive() {
		overpayment = remaining
	}

	logger.Info("Receipt allocated",
		slog.Int("invoices", len(allocatedInvoices)),
		slog.String("overpayment", overpayment.String()),
		slog.String("final_status", string(status.Status)),
	)

	return &dto.AllocationResult{
		ReceiptID:         receiptID,
		AllocatedInvoices: allocatedInvoices,
		OverpaymentAmount: overpayment,
		FinalStatus:       status.Status,
	}, nil
}

// invoiceEntries resolves the invoice's unpaid particular balances into
// allocation engine entries.
func (s *allocationService) invoiceEntries(ctx context.Context, studentID string, invoice *domain.Invoice, priorities map[string]int) ([]allocation.Entry, error) {
	items, err := s.feeMgr.InvoiceItems(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: invoice %s has no particulars", apperrors.ErrNoFeeStructure, invoice.InvoiceID)
	}

	paid, err := s.feeMgr.PaidRecords(ctx, studentID, invoice.TermID)
	if err != nil {
		return nil, err
	}

	balances := s.feeMgr.ParticularBalances(items, paid)
	entries := make([]allocation.Entry, 0, len(balances))
	for _, pb := range balances {
		entries = append(entries, allocation.Entry{
			ParticularID: pb.Particular.ParticularID,
			Balance:      pb.Balance,
			// Accounts without a configured priority fall through to rank 0.
			Rank: priorities[pb.Particular.AccountID],
		})
	}
	return entries, nil
}

// recordAllocation writes the receipt-invoice link row and the ledger rows
// for every nonzero grant. The running balance starts at the total granted
// for this invoice and decreases toward zero in the engine's deterministic
// entry order.
func (s *allocationService) recordAllocation(ctx context.Context, receipt *domain.Receipt, invoiceID string, invoiceShare decimal.Decimal, entries []allocation.Entry, allocated map[string]decimal.Decimal) error {
	now := time.Now().UTC()

	if err := s.receiptRepo.SaveReceiptAllocation(ctx, domain.ReceiptAllocation{
		AllocationID: uuid.NewString(),
		ReceiptID:    receipt.ReceiptID,
		InvoiceID:    invoiceID,
		Amount:       invoiceShare,
		CreatedAt:    now,
	}); err != nil {
		return fmt.Errorf("linking receipt %s to invoice %s: %w", receipt.ReceiptID, invoiceID, err)
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(allocated[e.ParticularID])
	}
	if total.GreaterThan(receipt.Amount) {
		return fmt.Errorf("%w: recorded total %s exceeds receipt amount %s",
			apperrors.ErrArithmeticInconsistency, total, receipt.Amount)
	}

	runningBalance := total
	transactions := make([]domain.Transaction, 0, len(entries))
	for _, e := range sortedForRecording(entries) {
		amount := allocated[e.ParticularID]
		if !amount.IsPositive() {
			continue
		}
		runningBalance = runningBalance.Sub(amount)
		transactions = append(transactions, domain.Transaction{
			TransactionID:  uuid.NewString(),
			ReceiptID:      receipt.ReceiptID,
			ParticularID:   e.ParticularID,
			Amount:         amount,
			RunningBalance: runningBalance,
			CreatedAt:      now,
		})
	}
	if len(transactions) == 0 {
		return nil
	}

	if err := s.transactionRepo.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("recording transactions for receipt %s: %w", receipt.ReceiptID, err)
	}
	return nil
}

// appendFeeStatus folds a signed delta into the student's latest arrears
// figure, classifies it and appends a new snapshot row. Payments arrive as
// positive deltas and invoice postings as negative ones; prior rows are
// never mutated.
func appendFeeStatus(ctx context.Context, repo portsrepo.FeeStatusRepositoryFacade, student *domain.Student, termID string, delta decimal.Decimal, purpose string) (*domain.FeeStatus, error) {
	arrears := delta
	latest, err := repo.FindLatestStatusByStudent(ctx, student.StudentID)
	if err == nil {
		arrears = latest.Arrears.Add(delta)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	status := domain.FeeStatus{
		StatusID:  uuid.NewString(),
		StudentID: student.StudentID,
		TermID:    termID,
		ModuleID:  student.ModuleID,
		Status:    domain.ClassifyArrears(arrears),
		Arrears:   arrears,
		Purpose:   purpose,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.SaveFeeStatus(ctx, status); err != nil {
		return nil, err
	}
	return &status, nil
}

// sortedForRecording orders entries the same way the engine processes them,
// so ledger output is reproducible run to run.
func sortedForRecording(entries []allocation.Entry) []allocation.Entry {
	sorted := make([]allocation.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].ParticularID < sorted[j].ParticularID
	})
	return sorted
}
