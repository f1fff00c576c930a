package repositories

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// AccountReader defines read operations for fee accounts (voteheads) and
// their priority configuration.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every configured account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// FindPriorityRanks returns accountID -> priority rank for every account
	// that has a configured priority level. Accounts without one are absent.
	FindPriorityRanks(ctx context.Context) (map[string]int, error)

	// ListPriorityLevels retrieves every priority level ordered by rank.
	ListPriorityLevels(ctx context.Context) ([]domain.PriorityLevel, error)
}

// AccountWriter defines write operations for account configuration.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	SavePriorityLevel(ctx context.Context, level domain.PriorityLevel) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
