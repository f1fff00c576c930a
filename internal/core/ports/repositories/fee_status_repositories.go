package repositories

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// FeeStatusReader defines read operations for fee status snapshots.
type FeeStatusReader interface {
	// FindLatestStatusByStudent retrieves the most recent snapshot for the
	// student, or apperrors.ErrNotFound when none exists yet.
	FindLatestStatusByStudent(ctx context.Context, studentID string) (*domain.FeeStatus, error)

	// ListStatusesByStudent retrieves the full snapshot history, newest first.
	ListStatusesByStudent(ctx context.Context, studentID string) ([]domain.FeeStatus, error)
}

// FeeStatusWriter defines write operations for fee status snapshots. Rows
// are append-only; prior snapshots are never mutated.
type FeeStatusWriter interface {
	SaveFeeStatus(ctx context.Context, status domain.FeeStatus) error
}

// FeeStatusRepositoryFacade combines all fee status repository interfaces.
type FeeStatusRepositoryFacade interface {
	FeeStatusReader
	FeeStatusWriter
}
