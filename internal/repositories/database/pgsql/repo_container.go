package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		FeeStructureRepo: newPgxFeeStructureRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		ReceiptRepo:      newPgxReceiptRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		FeeStatusRepo:    newPgxFeeStatusRepository(dbPool),
		StudentRepo:      newPgxStudentRepository(dbPool),
	}
}
