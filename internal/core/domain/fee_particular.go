package domain

import "github.com/shopspring/decimal"

// TargetScope identifies who a fee particular is billed to.
type TargetScope string

const (
	TargetStudent TargetScope = "Student"
	TargetClass   TargetScope = "Class"
	TargetCourse  TargetScope = "Course"
)

// FeeParticular is one priced line item of a fee structure. It belongs to
// exactly one Account (votehead) and is scoped to a course/module/term.
// The amount is immutable outside explicit administrative overrides.
type FeeParticular struct {
	ParticularID string          `json:"particularID"`
	Name         string          `json:"name"`
	CourseID     string          `json:"courseID"`
	ModuleID     string          `json:"moduleID"`
	TermID       string          `json:"termID"`
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	Target       TargetScope     `json:"target"`
	AuditFields
}

// ParticularBalance pairs a fee particular with its positive remaining
// balance after already-recorded payments are subtracted.
type ParticularBalance struct {
	Particular FeeParticular   `json:"particular"`
	Balance    decimal.Decimal `json:"balance"`
}

// RankedParticular pairs a fee particular with its account's priority rank.
type RankedParticular struct {
	Particular FeeParticular `json:"particular"`
	Rank       int           `json:"rank"`
}
