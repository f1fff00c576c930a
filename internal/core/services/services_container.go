package services

import (
	"log/slog"

	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The fee manager is the read-side core; allocation and reporting both
	// build on it.
	container.FeeManager = NewFeeManagerService(
		repos.StudentRepo,
		repos.TransactionRepo,
		repos.FeeStructureRepo,
		repos.AccountRepo,
	)

	container.Account = NewAccountService(repos.AccountRepo, repos.FeeStructureRepo)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.FeeStructureRepo,
		repos.FeeStatusRepo,
		repos.StudentRepo,
	)
	container.Receipt = NewReceiptService(
		repos.ReceiptRepo,
		repos.TransactionRepo,
		repos.StudentRepo,
	)
	container.Allocation = NewAllocationService(
		container.FeeManager,
		repos.ReceiptRepo,
		repos.InvoiceRepo,
		repos.TransactionRepo,
		repos.FeeStatusRepo,
		repos.StudentRepo,
	)
	container.Reporting = NewReportingService(
		container.FeeManager,
		repos.InvoiceRepo,
		repos.FeeStructureRepo,
		repos.TransactionRepo,
		repos.FeeStatusRepo,
		repos.StudentRepo,
	)
	container.Dispatcher = NewAllocationDispatcher(
		container.Allocation,
		logger,
		cfg.AllocMaxRetries,
		cfg.AllocRetryMaxInterval,
	)

	return container
}
