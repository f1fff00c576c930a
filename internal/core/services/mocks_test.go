package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindPriorityRanks(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAccountRepository) ListPriorityLevels(ctx context.Context) ([]domain.PriorityLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriorityLevel), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SavePriorityLevel(ctx context.Context, level domain.PriorityLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

// --- Mock FeeStructureRepository ---

type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindParticularsByStructure(ctx context.Context, courseID, moduleID, termID string) ([]domain.FeeParticular, error) {
	args := m.Called(ctx, courseID, moduleID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeParticular), args.Error(1)
}

func (m *MockFeeStructureRepository) FindParticularsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.FeeParticular, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeParticular), args.Error(1)
}

func (m *MockFeeStructureRepository) FindParticularsByIDs(ctx context.Context, particularIDs []string) ([]domain.FeeParticular, error) {
	args := m.Called(ctx, particularIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeParticular), args.Error(1)
}

func (m *MockFeeStructureRepository) SaveParticular(ctx context.Context, particular domain.FeeParticular) error {
	args := m.Called(ctx, particular)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingInvoicesByStudent(ctx context.Context, studentID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByStudent(ctx context.Context, studentID string, state *domain.InvoiceState) ([]domain.Invoice, error) {
	args := m.Called(ctx, studentID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountInvoices(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, particularIDs []string) error {
	args := m.Called(ctx, invoice, particularIDs)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceParticulars(ctx context.Context, invoiceID string, attachIDs, detachIDs []string, newAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, invoiceID, attachIDs, detachIDs, newAmount, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ApplySettlement(ctx context.Context, invoiceID string, allocated decimal.Decimal, updatedAt time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, allocated, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindReceiptByTransID(ctx context.Context, transID string) (*domain.Receipt, error) {
	args := m.Called(ctx, transID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) ListReceiptsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Receipt, error) {
	args := m.Called(ctx, studentID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveReceiptAllocation(ctx context.Context, allocation domain.ReceiptAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SumPaidByParticular(ctx context.Context, studentID, termID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, studentID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByReceiptID(ctx context.Context, receiptID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByStudentTerm(ctx context.Context, studentID, termID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, studentID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) HasTransactionsForReceipt(ctx context.Context, receiptID string) (bool, error) {
	args := m.Called(ctx, receiptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactions(ctx context.Context, transactions []domain.Transaction) error {
	args := m.Called(ctx, transactions)
	return args.Error(0)
}

// --- Mock FeeStatusRepository ---

type MockFeeStatusRepository struct {
	mock.Mock
}

func (m *MockFeeStatusRepository) FindLatestStatusByStudent(ctx context.Context, studentID string) (*domain.FeeStatus, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStatus), args.Error(1)
}

func (m *MockFeeStatusRepository) ListStatusesByStudent(ctx context.Context, studentID string) ([]domain.FeeStatus, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStatus), args.Error(1)
}

func (m *MockFeeStatusRepository) SaveFeeStatus(ctx context.Context, status domain.FeeStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

// --- Mock StudentRepository ---

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) FindTermByID(ctx context.Context, termID string) (*domain.Term, error) {
	args := m.Called(ctx, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Term), args.Error(1)
}

// --- Mock Allocator (for dispatcher tests) ---

type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) AllocatePayment(ctx context.Context, receiptID string) (*dto.AllocationResult, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AllocationResult), args.Error(1)
}
