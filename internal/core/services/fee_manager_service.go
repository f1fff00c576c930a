package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// feeManagerService resolves fee structures and computes balances and
// priorities for a student/term context. It has no side effects; the
// allocation orchestrator composes its outputs.
type feeManagerService struct {
	studentRepo      portsrepo.StudentReader
	transactionRepo  portsrepo.TransactionReader
	feeStructureRepo portsrepo.FeeStructureReader
	accountRepo      portsrepo.AccountReader
}

// NewFeeManagerService creates a new FeeManagerService.
func NewFeeManagerService(
	studentRepo portsrepo.StudentReader,
	transactionRepo portsrepo.TransactionReader,
	feeStructureRepo portsrepo.FeeStructureReader,
	accountRepo portsrepo.AccountReader,
) portssvc.FeeManagerSvcFacade {
	return &feeManagerService{
		studentRepo:      studentRepo,
		transactionRepo:  transactionRepo,
		feeStructureRepo: feeStructureRepo,
		accountRepo:      accountRepo,
	}
}

var _ portssvc.FeeManagerSvcFacade = (*feeManagerService)(nil)

// PaidRecords sums recorded transaction amounts per fee particular across
// all of the student's receipts for the term.
func (s *feeManagerService) PaidRecords(ctx context.Context, studentID, termID string) (map[string]decimal.Decimal, error) {
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	if _, err := s.studentRepo.FindTermByID(ctx, termID); err != nil {
		return nil, fmt.Errorf("term %s: %w", termID, err)
	}
	return s.transactionRepo.SumPaidByParticular(ctx, studentID, termID)
}

// InvoiceItems returns the particulars attached to an invoice's narration.
func (s *feeManagerService) InvoiceItems(ctx context.Context, invoiceID string) ([]domain.FeeParticular, error) {
	return s.feeStructureRepo.FindParticularsByInvoiceID(ctx, invoiceID)
}

// Structure returns the raw course/module/term fee structure for the
// student, used when no invoice has been committed yet.
func (s *feeManagerService) Structure(ctx context.Context, studentID, termID string) ([]domain.FeeParticular, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	return s.feeStructureRepo.FindParticularsByStructure(ctx, student.CourseID, student.ModuleID, termID)
}

// ParticularBalances diffs the structure against paid records. Particulars
// whose balance is zero or negative are fully settled and excluded.
func (s *feeManagerService) ParticularBalances(structure []domain.FeeParticular, paid map[string]decimal.Decimal) []domain.ParticularBalance {
	balances := make([]domain.ParticularBalance, 0, len(structure))
	for _, particular := range structure {
		remaining := particular.Amount.Sub(paid[particular.ParticularID])
		if remaining.IsPositive() {
			balances = append(balances, domain.ParticularBalance{
				Particular: particular,
				Balance:    remaining,
			})
		}
	}
	return balances
}

// Priorities returns accountID -> rank for every account that has a
// configured priority level. Accounts without one are excluded; the
// allocation engine treats them as rank 0.
func (s *feeManagerService) Priorities(ctx context.Context) (map[string]int, error) {
	return s.accountRepo.FindPriorityRanks(ctx)
}

// FilterPriorities restricts unpaid balances to particulars whose account
// has a priority, sorted rank descending. This ordering is the display
// order; the allocation engine re-sorts ascending for processing.
func (s *feeManagerService) FilterPriorities(unpaid []domain.ParticularBalance, priorities map[string]int) []domain.RankedParticular {
	ranked := make([]domain.RankedParticular, 0, len(unpaid))
	for _, pb := range unpaid {
		rank, ok := priorities[pb.Particular.AccountID]
		if !ok {
			continue
		}
		ranked = append(ranked, domain.RankedParticular{
			Particular: pb.Particular,
			Rank:       rank,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rank > ranked[j].Rank
	})
	return ranked
}
