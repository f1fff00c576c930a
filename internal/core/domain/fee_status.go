package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatusValue classifies a student's fee position.
type FeeStatusValue string

const (
	StatusCleared    FeeStatusValue = "Cleared"
	StatusNotCleared FeeStatusValue = "Not-Cleared"
	StatusOverpaid   FeeStatusValue = "Overpaid"
)

// FeeStatus is a point-in-time snapshot of a student's clearance position.
// Rows are append-only; the latest row per student is authoritative.
//
// Arrears is a signed running net position, not a debt magnitude: payments
// are added as positive deltas and invoice postings as negative ones, so
// arrears > 0 means overpaid and arrears < 0 means owing. The convention is
// carried over from the upstream system unchanged.
type FeeStatus struct {
	StatusID  string          `json:"statusID"`
	StudentID string          `json:"studentID"`
	TermID    string          `json:"termID"`
	ModuleID  string          `json:"moduleID"`
	Status    FeeStatusValue  `json:"status"`
	Arrears   decimal.Decimal `json:"arrears"`
	Purpose   string          `json:"purpose"` // external reference, e.g. receipt TransID
	CreatedAt time.Time       `json:"createdAt"`
}

// ClassifyArrears maps a signed arrears figure to a fee status value.
func ClassifyArrears(arrears decimal.Decimal) FeeStatusValue {
	switch {
	case arrears.IsPositive():
		return StatusOverpaid
	case arrears.IsNegative():
		return StatusNotCleared
	default:
		return StatusCleared
	}
}
