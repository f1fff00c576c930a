package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/core/services"
)

type AllocationServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockStructureRepo *MockFeeStructureRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockReceiptRepo   *MockReceiptRepository
	mockTxnRepo       *MockTransactionRepository
	mockStatusRepo    *MockFeeStatusRepository
	mockStudentRepo   *MockStudentRepository
	service           portssvc.AllocationSvcFacade
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockStructureRepo = new(MockFeeStructureRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockStatusRepo = new(MockFeeStatusRepository)
	suite.mockStudentRepo = new(MockStudentRepository)

	feeMgr := services.NewFeeManagerService(
		suite.mockStudentRepo,
		suite.mockTxnRepo,
		suite.mockStructureRepo,
		suite.mockAccountRepo,
	)
	suite.service = services.NewAllocationService(
		feeMgr,
		suite.mockReceiptRepo,
		suite.mockInvoiceRepo,
		suite.mockTxnRepo,
		suite.mockStatusRepo,
		suite.mockStudentRepo,
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *AllocationServiceTestSuite) particular(id, accountID, amount string) domain.FeeParticular {
	return domain.FeeParticular{
		ParticularID: id,
		Name:         id,
		CourseID:     "course-1",
		ModuleID:     "module-1",
		TermID:       "term-1",
		AccountID:    accountID,
		Amount:       dec(amount),
	}
}

func (suite *AllocationServiceTestSuite) setupStudentAndTerm() {
	suite.mockStudentRepo.On("FindStudentByID", mock.Anything, "student-1").Return(&domain.Student{
		StudentID: "student-1",
		RegNo:     "S001",
		CourseID:  "course-1",
		ModuleID:  "module-1",
	}, nil)
	suite.mockStudentRepo.On("FindTermByID", mock.Anything, "term-1").Return(&domain.Term{TermID: "term-1"}, nil)
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_PriorityThenSharing() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-1",
		TransID:   "MPESA-001",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("700"),
	}
	invoice := domain.Invoice{
		InvoiceID: "invoice-1",
		InvoiceNo: `INV\2026\0001`,
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("1500"),
		State:     domain.InvoicePending,
	}

	suite.setupStudentAndTerm()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-1").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-1").Return(false, nil).Once()
	suite.mockAccountRepo.On("FindPriorityRanks", ctx).
		Return(map[string]int{"acc-tuition": 100, "acc-library": 50}, nil).Once()
	suite.mockInvoiceRepo.On("FindPendingInvoicesByStudent", ctx, "student-1").
		Return([]domain.Invoice{invoice}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-1").
		Return([]domain.FeeParticular{
			suite.particular("tuition", "acc-tuition", "500"),
			suite.particular("library", "acc-library", "1000"),
		}, nil).Once()
	suite.mockTxnRepo.On("SumPaidByParticular", ctx, "student-1", "term-1").
		Return(map[string]decimal.Decimal{}, nil).Once()

	suite.mockReceiptRepo.On("SaveReceiptAllocation", ctx, mock.MatchedBy(func(a domain.ReceiptAllocation) bool {
		return a.ReceiptID == "receipt-1" && a.InvoiceID == "invoice-1" && a.Amount.Equal(dec("700"))
	})).Return(nil).Once()

	// Full-priority tuition is paid to exhaustion, library gets the rest.
	// Ledger rows are written rank ascending, running balance counting down.
	suite.mockTxnRepo.On("SaveTransactions", ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		if len(txns) != 2 {
			return false
		}
		library, tuition := txns[0], txns[1]
		return library.ParticularID == "library" && library.Amount.Equal(dec("200")) &&
			library.RunningBalance.Equal(dec("500")) &&
			tuition.ParticularID == "tuition" && tuition.Amount.Equal(dec("500")) &&
			tuition.RunningBalance.Equal(dec("0"))
	})).Return(nil).Once()

	updated := invoice
	updated.PaidAmount = dec("700")
	suite.mockInvoiceRepo.On("ApplySettlement", ctx, "invoice-1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("700"))
	}), mock.AnythingOfType("time.Time")).Return(&updated, nil).Once()

	suite.mockStatusRepo.On("FindLatestStatusByStudent", ctx, "student-1").
		Return(&domain.FeeStatus{Arrears: dec("-1500")}, nil).Once()
	suite.mockStatusRepo.On("SaveFeeStatus", ctx, mock.MatchedBy(func(s domain.FeeStatus) bool {
		return s.StudentID == "student-1" &&
			s.Arrears.Equal(dec("-800")) &&
			s.Status == domain.StatusNotCleared &&
			s.Purpose == "MPESA-001"
	})).Return(nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-1")

	suite.Require().NoError(err)
	suite.Require().Len(result.AllocatedInvoices, 1)
	suite.Equal("invoice-1", result.AllocatedInvoices[0].InvoiceID)
	suite.True(result.AllocatedInvoices[0].Amount.Equal(dec("700")))
	suite.False(result.AllocatedInvoices[0].Settled)
	suite.True(result.OverpaymentAmount.IsZero())
	suite.Equal(domain.StatusNotCleared, result.FinalStatus)

	suite.mockReceiptRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockStatusRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_OldestInvoiceFirstAndOverpayment() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-2",
		TransID:   "MPESA-002",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("600"),
	}
	older := domain.Invoice{
		InvoiceID: "invoice-old",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("300"),
		State:     domain.InvoicePending,
	}
	newer := domain.Invoice{
		InvoiceID: "invoice-new",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("200"),
		State:     domain.InvoicePending,
	}

	suite.setupStudentAndTerm()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-2").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-2").Return(false, nil).Once()
	suite.mockAccountRepo.On("FindPriorityRanks", ctx).
		Return(map[string]int{"acc-tuition": 100}, nil).Once()
	suite.mockInvoiceRepo.On("FindPendingInvoicesByStudent", ctx, "student-1").
		Return([]domain.Invoice{older, newer}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-old").
		Return([]domain.FeeParticular{suite.particular("tuition-old", "acc-tuition", "300")}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-new").
		Return([]domain.FeeParticular{suite.particular("tuition-new", "acc-tuition", "200")}, nil).Once()
	suite.mockTxnRepo.On("SumPaidByParticular", ctx, "student-1", "term-1").
		Return(map[string]decimal.Decimal{}, nil)

	suite.mockReceiptRepo.On("SaveReceiptAllocation", ctx, mock.AnythingOfType("domain.ReceiptAllocation")).Return(nil).Twice()
	suite.mockTxnRepo.On("SaveTransactions", ctx, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Twice()

	clearedOld := older
	clearedOld.PaidAmount = dec("300")
	clearedOld.State = domain.InvoiceCleared
	clearedOld.IsCleared = true
	suite.mockInvoiceRepo.On("ApplySettlement", ctx, "invoice-old", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("300"))
	}), mock.AnythingOfType("time.Time")).Return(&clearedOld, nil).Once()

	clearedNew := newer
	clearedNew.PaidAmount = dec("200")
	clearedNew.State = domain.InvoiceCleared
	clearedNew.IsCleared = true
	suite.mockInvoiceRepo.On("ApplySettlement", ctx, "invoice-new", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("200"))
	}), mock.AnythingOfType("time.Time")).Return(&clearedNew, nil).Once()

	suite.mockStatusRepo.On("FindLatestStatusByStudent", ctx, "student-1").
		Return(&domain.FeeStatus{Arrears: dec("-500")}, nil).Once()
	suite.mockStatusRepo.On("SaveFeeStatus", ctx, mock.MatchedBy(func(s domain.FeeStatus) bool {
		return s.Arrears.Equal(dec("100")) && s.Status == domain.StatusOverpaid
	})).Return(nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-2")

	suite.Require().NoError(err)
	suite.Require().Len(result.AllocatedInvoices, 2)
	suite.Equal("invoice-old", result.AllocatedInvoices[0].InvoiceID)
	suite.True(result.AllocatedInvoices[0].Settled)
	suite.Equal("invoice-new", result.AllocatedInvoices[1].InvoiceID)
	suite.True(result.AllocatedInvoices[1].Settled)
	suite.True(result.OverpaymentAmount.Equal(dec("100")))
	suite.Equal(domain.StatusOverpaid, result.FinalStatus)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockStatusRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_AlreadyAllocated() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-3",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("100"),
	}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-3").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-3").Return(true, nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-3")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockStatusRepo.AssertNotCalled(suite.T(), "SaveFeeStatus", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_ReceiptNotFound() {
	ctx := context.Background()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.AllocatePayment(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_NoFeeStructureSkipsInvoice() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-4",
		TransID:   "MPESA-004",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("250"),
	}
	invoice := domain.Invoice{
		InvoiceID: "invoice-bare",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("400"),
		State:     domain.InvoicePending,
	}

	suite.setupStudentAndTerm()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-4").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-4").Return(false, nil).Once()
	suite.mockAccountRepo.On("FindPriorityRanks", ctx).Return(map[string]int{}, nil).Once()
	suite.mockInvoiceRepo.On("FindPendingInvoicesByStudent", ctx, "student-1").
		Return([]domain.Invoice{invoice}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-bare").
		Return([]domain.FeeParticular{}, nil).Once()

	// The invoice is skipped; nothing is recorded against it but the status
	// snapshot is still appended for the payment itself.
	suite.mockStatusRepo.On("FindLatestStatusByStudent", ctx, "student-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStatusRepo.On("SaveFeeStatus", ctx, mock.MatchedBy(func(s domain.FeeStatus) bool {
		return s.Arrears.Equal(dec("250")) && s.Status == domain.StatusOverpaid
	})).Return(nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-4")

	suite.Require().NoError(err)
	suite.Empty(result.AllocatedInvoices)
	suite.True(result.OverpaymentAmount.Equal(dec("250")))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ApplySettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_InvoiceDeletedDuringSettlement() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-5",
		TransID:   "MPESA-005",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("100"),
	}
	invoice := domain.Invoice{
		InvoiceID: "invoice-gone",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("100"),
		State:     domain.InvoicePending,
	}

	suite.setupStudentAndTerm()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-5").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-5").Return(false, nil).Once()
	suite.mockAccountRepo.On("FindPriorityRanks", ctx).Return(map[string]int{"acc-tuition": 100}, nil).Once()
	suite.mockInvoiceRepo.On("FindPendingInvoicesByStudent", ctx, "student-1").
		Return([]domain.Invoice{invoice}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-gone").
		Return([]domain.FeeParticular{suite.particular("tuition", "acc-tuition", "100")}, nil).Once()
	suite.mockTxnRepo.On("SumPaidByParticular", ctx, "student-1", "term-1").
		Return(map[string]decimal.Decimal{}, nil).Once()
	suite.mockReceiptRepo.On("SaveReceiptAllocation", ctx, mock.AnythingOfType("domain.ReceiptAllocation")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactions", ctx, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()
	suite.mockInvoiceRepo.On("ApplySettlement", ctx, "invoice-gone", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStatusRepo.On("FindLatestStatusByStudent", ctx, "student-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStatusRepo.On("SaveFeeStatus", ctx, mock.AnythingOfType("domain.FeeStatus")).Return(nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-5")

	// The ledger rows stand; only the settlement update is skipped.
	suite.Require().NoError(err)
	suite.Require().Len(result.AllocatedInvoices, 1)
	suite.False(result.AllocatedInvoices[0].Settled)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestAllocatePayment_PartiallyPaidParticularsExcluded() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "receipt-6",
		TransID:   "MPESA-006",
		StudentID: "student-1",
		TermID:    "term-1",
		Amount:    dec("150"),
	}
	invoice := domain.Invoice{
		InvoiceID:  "invoice-6",
		StudentID:  "student-1",
		TermID:     "term-1",
		Amount:     dec("600"),
		PaidAmount: dec("500"),
		State:      domain.InvoicePending,
	}

	suite.setupStudentAndTerm()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "receipt-6").Return(receipt, nil).Once()
	suite.mockTxnRepo.On("HasTransactionsForReceipt", ctx, "receipt-6").Return(false, nil).Once()
	suite.mockAccountRepo.On("FindPriorityRanks", ctx).
		Return(map[string]int{"acc-tuition": 100, "acc-library": 50}, nil).Once()
	suite.mockInvoiceRepo.On("FindPendingInvoicesByStudent", ctx, "student-1").
		Return([]domain.Invoice{invoice}, nil).Once()
	suite.mockStructureRepo.On("FindParticularsByInvoiceID", ctx, "invoice-6").
		Return([]domain.FeeParticular{
			suite.particular("tuition", "acc-tuition", "500"),
			suite.particular("library", "acc-library", "100"),
		}, nil).Once()
	// Tuition already fully settled by earlier receipts.
	suite.mockTxnRepo.On("SumPaidByParticular", ctx, "student-1", "term-1").
		Return(map[string]decimal.Decimal{"tuition": dec("500")}, nil).Once()

	// Invoice balance due is 100, so only 100 of the 150 goes to it.
	suite.mockReceiptRepo.On("SaveReceiptAllocation", ctx, mock.MatchedBy(func(a domain.ReceiptAllocation) bool {
		return a.Amount.Equal(dec("100"))
	})).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactions", ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		return len(txns) == 1 && txns[0].ParticularID == "library" && txns[0].Amount.Equal(dec("100"))
	})).Return(nil).Once()

	cleared := invoice
	cleared.PaidAmount = dec("600")
	cleared.State = domain.InvoiceCleared
	cleared.IsCleared = true
	suite.mockInvoiceRepo.On("ApplySettlement", ctx, "invoice-6", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("100"))
	}), mock.AnythingOfType("time.Time")).Return(&cleared, nil).Once()

	suite.mockStatusRepo.On("FindLatestStatusByStudent", ctx, "student-1").
		Return(&domain.FeeStatus{Arrears: dec("-100")}, nil).Once()
	suite.mockStatusRepo.On("SaveFeeStatus", ctx, mock.MatchedBy(func(s domain.FeeStatus) bool {
		return s.Arrears.Equal(dec("50")) && s.Status == domain.StatusOverpaid
	})).Return(nil).Once()

	result, err := suite.service.AllocatePayment(ctx, "receipt-6")

	suite.Require().NoError(err)
	suite.Require().Len(result.AllocatedInvoices, 1)
	suite.True(result.AllocatedInvoices[0].Settled)
	suite.True(result.OverpaymentAmount.Equal(dec("50")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
