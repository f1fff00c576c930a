package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// FeeManagerSvcFacade resolves fee structures and computes per-particular
// balances and priorities for a student/term context. These are the pure
// read-side building blocks the allocation orchestrator composes.
type FeeManagerSvcFacade interface {
	// PaidRecords sums recorded transaction amounts per fee particular
	// across all of the student's receipts for the term.
	PaidRecords(ctx context.Context, studentID, termID string) (map[string]decimal.Decimal, error)

	// InvoiceItems returns the particulars attached to an invoice.
	InvoiceItems(ctx context.Context, invoiceID string) ([]domain.FeeParticular, error)

	// Structure returns the raw course/module/term fee structure for the
	// student. Used when no invoice exists yet.
	Structure(ctx context.Context, studentID, termID string) ([]domain.FeeParticular, error)

	// ParticularBalances diffs a structure against paid records. Particulars
	// with nothing left to pay are excluded from the result.
	ParticularBalances(structure []domain.FeeParticular, paid map[string]decimal.Decimal) []domain.ParticularBalance

	// Priorities returns accountID -> rank for every account with a
	// configured priority level; accounts without one are excluded.
	Priorities(ctx context.Context) (map[string]int, error)

	// FilterPriorities restricts unpaid balances to particulars whose
	// account has a priority, sorted by rank descending for display.
	FilterPriorities(unpaid []domain.ParticularBalance, priorities map[string]int) []domain.RankedParticular
}
