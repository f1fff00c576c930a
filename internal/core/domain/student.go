package domain

import "time"

// StudentID is a typed student identifier. Allocation serialization is keyed
// by this type rather than a bare string.
type StudentID string

// Student is a read-only projection of the student record owned by the
// admissions collaborator. ModuleID comes from the student's module
// allocation and scopes fee-structure lookups.
type Student struct {
	StudentID string `json:"studentID"`
	RegNo     string `json:"regNo"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CourseID  string `json:"courseID"`
	ModuleID  string `json:"moduleID"`
}

// Term is an academic term, read-only here.
type Term struct {
	TermID    string    `json:"termID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}
