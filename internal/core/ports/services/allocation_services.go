package services

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/dto"
)

// AllocationSvcFacade runs the fee allocation engine for confirmed receipts.
type AllocationSvcFacade interface {
	// AllocatePayment distributes the receipt's amount across the student's
	// pending invoices oldest-first, records the ledger rows, updates
	// invoice settlement and appends a fee status snapshot.
	//
	// Returns apperrors.ErrDuplicate when the receipt was already allocated
	// (idempotency guard) and apperrors.ErrConflict when another allocation
	// for the same student is in flight.
	AllocatePayment(ctx context.Context, receiptID string) (*dto.AllocationResult, error)
}

// AllocationDispatcher runs allocation jobs asynchronously, one at a time
// per student, retrying conflicts with backoff. Jobs are idempotent per
// receipt, so at-least-once delivery is safe.
type AllocationDispatcher interface {
	// Enqueue schedules an allocation job for the receipt and returns
	// immediately.
	Enqueue(receiptID string)

	// Wait blocks until every enqueued job has reached a terminal state.
	Wait()
}
