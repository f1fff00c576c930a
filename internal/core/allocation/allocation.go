// Package allocation implements the waterfall/ratio engine that distributes
// a payment across a student's outstanding fee particulars. It is pure
// computation: no I/O, no clock, no randomness.
package allocation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
)

// FullPriorityRank marks an account that must be settled in full before any
// lower-priority account receives funds.
const FullPriorityRank = 100

var hundred = decimal.NewFromInt(100)

// Entry is one unpaid fee particular offered for allocation.
type Entry struct {
	ParticularID string
	Balance      decimal.Decimal // positive remaining balance
	Rank         int             // priority rank, 0..100
}

// Allocate distributes amount across the given entries and returns the
// allocated amount per particular ID. Every entry appears in the result,
// fully settled entries at their balance and untouched ones at zero.
//
// When amount covers the total balance, every entry is allocated its full
// balance; any surplus is not represented here and must be recognized by the
// caller as overpayment. Otherwise rank-100 entries are paid to exhaustion
// first, and the remainder is shared among the rest, each pass granting
// min(ratio share, priority share, unpaid remainder, amount left) per entry
// until a full pass distributes nothing. All rounding truncates at the cent.
func Allocate(amount decimal.Decimal, entries []Entry) (map[string]decimal.Decimal, error) {
	allocated := make(map[string]decimal.Decimal, len(entries))
	if len(entries) == 0 {
		return allocated, nil
	}

	sorted := sortEntries(entries)

	total := decimal.Zero
	for _, e := range sorted {
		if e.Balance.IsNegative() {
			return nil, fmt.Errorf("%w: negative balance %s for particular %s",
				apperrors.ErrArithmeticInconsistency, e.Balance, e.ParticularID)
		}
		total = total.Add(e.Balance)
		allocated[e.ParticularID] = decimal.Zero
	}

	if !amount.IsPositive() {
		return allocated, nil
	}

	// Full settlement: everyone gets their balance, surplus stays with caller.
	if amount.GreaterThanOrEqual(total) {
		for _, e := range sorted {
			allocated[e.ParticularID] = e.Balance
		}
		return allocated, nil
	}

	// Pass A: rank-100 entries are settled to exhaustion.
	remaining := amount
	var shared []Entry
	for _, e := range sorted {
		if !remaining.IsPositive() {
			break
		}
		if e.Rank == FullPriorityRank {
			if remaining.GreaterThanOrEqual(e.Balance) {
				allocated[e.ParticularID] = e.Balance
				remaining = remaining.Sub(e.Balance)
			} else {
				allocated[e.ParticularID] = remaining
				remaining = decimal.Zero
			}
		} else {
			shared = append(shared, e)
		}
	}

	if !remaining.IsPositive() {
		return allocated, checkConservation(amount, entries, allocated)
	}

	// Pass B: share the remainder among rank<100 entries. The ratio base is
	// fixed at the pre-distribution total of the shared entries.
	sharedTotal := decimal.Zero
	for _, e := range shared {
		sharedTotal = sharedTotal.Add(e.Balance)
	}
	if !sharedTotal.IsPositive() {
		return allocated, checkConservation(amount, entries, allocated)
	}

	// Early passes may under-allocate because each grant is capped by the
	// ratio and priority shares, so repeat until a pass distributes nothing.
	for remaining.IsPositive() {
		distributed := false
		for _, e := range shared {
			unpaid := e.Balance.Sub(allocated[e.ParticularID])
			if !unpaid.IsPositive() {
				continue
			}

			ratioShare := e.Balance.Div(sharedTotal).Mul(remaining).Truncate(2)
			priorityShare := decimal.NewFromInt(int64(e.Rank)).Div(hundred).Mul(e.Balance).Truncate(2)

			grant := decimal.Min(ratioShare, priorityShare, unpaid, remaining)
			if !grant.IsPositive() {
				continue
			}

			allocated[e.ParticularID] = allocated[e.ParticularID].Add(grant)
			remaining = remaining.Sub(grant)
			distributed = true
			if !remaining.IsPositive() {
				break
			}
		}
		if !distributed {
			break
		}
	}

	return allocated, checkConservation(amount, entries, allocated)
}

// Total sums the balances of the given entries.
func Total(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Balance)
	}
	return total
}

// sortEntries returns a copy ordered by rank ascending, particular ID
// ascending. The order is total so repeated runs produce identical output.
func sortEntries(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].ParticularID < sorted[j].ParticularID
	})
	return sorted
}

// checkConservation verifies the engine's invariants: no entry exceeds its
// balance and the sum of grants never exceeds the supplied amount. A failure
// here is a programming error and must abort the allocation job.
func checkConservation(amount decimal.Decimal, entries []Entry, allocated map[string]decimal.Decimal) error {
	sum := decimal.Zero
	for _, e := range entries {
		got := allocated[e.ParticularID]
		if got.GreaterThan(e.Balance) {
			return fmt.Errorf("%w: particular %s allocated %s above balance %s",
				apperrors.ErrArithmeticInconsistency, e.ParticularID, got, e.Balance)
		}
		sum = sum.Add(got)
	}
	if sum.GreaterThan(amount) {
		return fmt.Errorf("%w: allocated %s exceeds supplied amount %s",
			apperrors.ErrArithmeticInconsistency, sum, amount)
	}
	return nil
}
