package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/core/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

type ReceiptServiceTestSuite struct {
	suite.Suite
	mockReceiptRepo *MockReceiptRepository
	mockTxnRepo     *MockTransactionRepository
	mockStudentRepo *MockStudentRepository
	service         portssvc.ReceiptSvcFacade
}

func (suite *ReceiptServiceTestSuite) SetupTest() {
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockStudentRepo = new(MockStudentRepository)
	suite.service = services.NewReceiptService(
		suite.mockReceiptRepo,
		suite.mockTxnRepo,
		suite.mockStudentRepo,
	)
}

func (suite *ReceiptServiceTestSuite) validRequest() dto.CreateReceiptRequest {
	return dto.CreateReceiptRequest{
		TransID:   "MPESA-100",
		StudentID: "student-1",
		WalletID:  "wallet-1",
		TermID:    "term-1",
		Amount:    dec("1000"),
		Cashier:   "front-office",
	}
}

func (suite *ReceiptServiceTestSuite) TestRecordReceipt_Success() {
	ctx := context.Background()
	req := suite.validRequest()

	suite.mockReceiptRepo.On("FindReceiptByTransID", ctx, "MPESA-100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStudentRepo.On("FindStudentByID", ctx, "student-1").Return(&domain.Student{StudentID: "student-1"}, nil).Once()
	suite.mockStudentRepo.On("FindTermByID", ctx, "term-1").Return(&domain.Term{TermID: "term-1"}, nil).Once()
	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r domain.Receipt) bool {
		return r.TransID == "MPESA-100" && r.StudentID == "student-1" &&
			r.Amount.Equal(dec("1000")) && r.ReceiptID != ""
	})).Return(nil).Once()

	receipt, err := suite.service.RecordReceipt(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Equal("MPESA-100", receipt.TransID)
	suite.False(receipt.PaidAt.IsZero())
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *ReceiptServiceTestSuite) TestRecordReceipt_DuplicateTransIDReturnsExisting() {
	ctx := context.Background()
	req := suite.validRequest()
	existing := &domain.Receipt{ReceiptID: "receipt-original", TransID: "MPESA-100"}

	suite.mockReceiptRepo.On("FindReceiptByTransID", ctx, "MPESA-100").Return(existing, nil).Once()

	receipt, err := suite.service.RecordReceipt(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Equal(existing, receipt)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "SaveReceipt", mock.Anything, mock.Anything)
}

func (suite *ReceiptServiceTestSuite) TestRecordReceipt_NonPositiveAmount() {
	ctx := context.Background()
	req := suite.validRequest()
	req.Amount = dec("0")

	receipt, err := suite.service.RecordReceipt(ctx, req)

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReceiptServiceTestSuite) TestRecordReceipt_UnknownStudent() {
	ctx := context.Background()
	req := suite.validRequest()

	suite.mockReceiptRepo.On("FindReceiptByTransID", ctx, "MPESA-100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStudentRepo.On("FindStudentByID", ctx, "student-1").Return(nil, apperrors.ErrNotFound).Once()

	receipt, err := suite.service.RecordReceipt(ctx, req)

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReceiptServiceTestSuite) TestGetReceiptTransactions_ReceiptMustExist() {
	ctx := context.Background()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	txns, err := suite.service.GetReceiptTransactions(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(txns)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionsByReceiptID", mock.Anything, mock.Anything)
}

func TestReceiptServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceTestSuite))
}
