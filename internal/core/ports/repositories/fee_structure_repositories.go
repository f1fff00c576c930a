package repositories

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// FeeStructureReader defines read operations for fee particulars, both the
// raw course/module/term structure and the particulars attached to an
// invoice's narration.
type FeeStructureReader interface {
	// FindParticularsByStructure retrieves the fee structure defined for a
	// course/module/term combination.
	FindParticularsByStructure(ctx context.Context, courseID, moduleID, termID string) ([]domain.FeeParticular, error)

	// FindParticularsByInvoiceID retrieves the particulars attached to an
	// invoice, i.e. its narration.
	FindParticularsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.FeeParticular, error)

	// FindParticularsByIDs retrieves specific particulars keyed by ID.
	FindParticularsByIDs(ctx context.Context, particularIDs []string) ([]domain.FeeParticular, error)
}

// FeeStructureWriter defines write operations for fee particulars.
type FeeStructureWriter interface {
	SaveParticular(ctx context.Context, particular domain.FeeParticular) error
}

// FeeStructureRepositoryFacade combines all fee-structure repository interfaces.
type FeeStructureRepositoryFacade interface {
	FeeStructureReader
	FeeStructureWriter
}
