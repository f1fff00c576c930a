package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// jobState tracks an allocation job through its lifecycle. Received and
// Allocating are transient; Settled and Failed are terminal.
type jobState string

const (
	jobReceived   jobState = "Received"
	jobAllocating jobState = "Allocating"
	jobSettled    jobState = "Settled"
	jobFailed     jobState = "Failed"
)

// allocationDispatcher runs allocation jobs in the background. Conflicts
// (another allocation in flight for the same student) are retried with
// exponential backoff; everything else is terminal. A receipt that turns
// out to be already allocated counts as settled, which makes redelivery of
// the same confirmation harmless.
type allocationDispatcher struct {
	allocator   portssvc.AllocationSvcFacade
	logger      *slog.Logger
	maxRetries  uint64
	maxInterval time.Duration
	wg          sync.WaitGroup
}

// NewAllocationDispatcher creates a new AllocationDispatcher.
func NewAllocationDispatcher(allocator portssvc.AllocationSvcFacade, logger *slog.Logger, maxRetries uint64, maxInterval time.Duration) portssvc.AllocationDispatcher {
	return &allocationDispatcher{
		allocator:   allocator,
		logger:      logger,
		maxRetries:  maxRetries,
		maxInterval: maxInterval,
	}
}

var _ portssvc.AllocationDispatcher = (*allocationDispatcher)(nil)

// Enqueue schedules an allocation job for the receipt and returns
// immediately.
func (d *allocationDispatcher) Enqueue(receiptID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(receiptID)
	}()
}

// Wait blocks until every enqueued job has reached a terminal state.
func (d *allocationDispatcher) Wait() {
	d.wg.Wait()
}

func (d *allocationDispatcher) run(receiptID string) {
	logger := d.logger.With(slog.String("receipt_id", receiptID))
	ctx := middleware.ContextWithLogger(context.Background(), logger)

	state := jobReceived
	logger.Info("Allocation job received", slog.String("state", string(state)))

	operation := func() error {
		state = jobAllocating
		_, err := d.allocator.AllocatePayment(ctx, receiptID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, apperrors.ErrDuplicate):
			// An earlier delivery finished this receipt.
			logger.Info("Receipt already allocated, treating as settled")
			return nil
		case errors.Is(err, apperrors.ErrConflict):
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = d.maxInterval
	err := backoff.Retry(operation, backoff.WithMaxRetries(policy, d.maxRetries))
	if err != nil {
		state = jobFailed
		logger.Error("Allocation job failed",
			slog.String("state", string(state)),
			slog.String("error", err.Error()),
		)
		return
	}

	state = jobSettled
	logger.Info("Allocation job settled", slog.String("state", string(state)))
}
