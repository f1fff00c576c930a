package repositories

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// StudentReader defines read-only lookups against the student and term
// records owned by the admissions collaborator.
type StudentReader interface {
	// FindStudentByID retrieves a student with their module allocation.
	FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error)

	// FindTermByID retrieves an academic term.
	FindTermByID(ctx context.Context, termID string) (*domain.Term, error)
}
