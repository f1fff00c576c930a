package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// reportingService serves the read-only statement and clearance surfaces.
type reportingService struct {
	feeMgr        portssvc.FeeManagerSvcFacade
	invoiceRepo   portsrepo.InvoiceReader
	feeStructRepo portsrepo.FeeStructureReader
	txnRepo       portsrepo.TransactionReader
	feeStatusRepo portsrepo.FeeStatusReader
	studentRepo   portsrepo.StudentReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	feeMgr portssvc.FeeManagerSvcFacade,
	invoiceRepo portsrepo.InvoiceReader,
	feeStructRepo portsrepo.FeeStructureReader,
	txnRepo portsrepo.TransactionReader,
	feeStatusRepo portsrepo.FeeStatusReader,
	studentRepo portsrepo.StudentReader,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		feeMgr:        feeMgr,
		invoiceRepo:   invoiceRepo,
		feeStructRepo: feeStructRepo,
		txnRepo:       txnRepo,
		feeStatusRepo: feeStatusRepo,
		studentRepo:   studentRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// StudentStatement builds billed/paid/balance per particular plus the
// transaction history for a student's term. If the student has a committed
// invoice for the term its particulars are the billing source of truth;
// otherwise the raw fee structure is used.
func (s *reportingService) StudentStatement(ctx context.Context, studentID, termID string) (*dto.StudentStatementResponse, error) {
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	if _, err := s.studentRepo.FindTermByID(ctx, termID); err != nil {
		return nil, fmt.Errorf("term %s: %w", termID, err)
	}

	structure, err := s.billedParticulars(ctx, studentID, termID)
	if err != nil {
		return nil, err
	}

	paid, err := s.feeMgr.PaidRecords(ctx, studentID, termID)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.ParticularBalanceResponse, 0, len(structure))
	totalBilled := decimal.Zero
	totalPaid := decimal.Zero
	for _, p := range structure {
		settled := paid[p.ParticularID]
		lines = append(lines, dto.ParticularBalanceResponse{
			ParticularID: p.ParticularID,
			Name:         p.Name,
			AccountID:    p.AccountID,
			Billed:       p.Amount,
			Paid:         settled,
			Balance:      p.Amount.Sub(settled),
		})
		totalBilled = totalBilled.Add(p.Amount)
		totalPaid = totalPaid.Add(settled)
	}

	txns, err := s.txnRepo.ListTransactionsByStudentTerm(ctx, studentID, termID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentStatementResponse{
		StudentID:    studentID,
		TermID:       termID,
		Particulars:  lines,
		Transactions: dto.ToTransactionResponses(txns),
		TotalBilled:  totalBilled,
		TotalPaid:    totalPaid,
	}, nil
}

// LatestFeeStatus returns the authoritative fee status snapshot.
func (s *reportingService) LatestFeeStatus(ctx context.Context, studentID string) (*domain.FeeStatus, error) {
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	return s.feeStatusRepo.FindLatestStatusByStudent(ctx, studentID)
}

// FeeStatusHistory returns the full snapshot audit trail, newest first.
func (s *reportingService) FeeStatusHistory(ctx context.Context, studentID string) ([]domain.FeeStatus, error) {
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	return s.feeStatusRepo.ListStatusesByStudent(ctx, studentID)
}

// billedParticulars picks the billing source for the statement: the term's
// committed invoice when one exists, the raw structure otherwise.
func (s *reportingService) billedParticulars(ctx context.Context, studentID, termID string) ([]domain.FeeParticular, error) {
	invoices, err := s.invoiceRepo.ListInvoicesByStudent(ctx, studentID, nil)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].TermID != termID {
			continue
		}
		items, err := s.feeStructRepo.FindParticularsByInvoiceID(ctx, invoices[i].InvoiceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return s.feeMgr.Structure(ctx, studentID, termID)
}
