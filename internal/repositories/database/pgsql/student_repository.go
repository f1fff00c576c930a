package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxStudentRepository struct {
	BaseRepository
}

// newPgxStudentRepository creates a read-only repository over the student
// and term projections.
func newPgxStudentRepository(pool *pgxpool.Pool) portsrepo.StudentReader {
	return &PgxStudentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.StudentReader = (*PgxStudentRepository)(nil)

// FindStudentByID retrieves a student with their module allocation.
func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT student_id, reg_no, first_name, last_name, course_id, module_id
		FROM students
		WHERE student_id = $1;
	`
	var student domain.Student
	err := r.Pool.QueryRow(ctx, query, studentID).Scan(
		&student.StudentID,
		&student.RegNo,
		&student.FirstName,
		&student.LastName,
		&student.CourseID,
		&student.ModuleID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student by ID %s: %w", studentID, err)
	}
	return &student, nil
}

// FindTermByID retrieves an academic term.
func (r *PgxStudentRepository) FindTermByID(ctx context.Context, termID string) (*domain.Term, error) {
	query := `
		SELECT term_id, name, start_date, end_date
		FROM terms
		WHERE term_id = $1;
	`
	var term domain.Term
	err := r.Pool.QueryRow(ctx, query, termID).Scan(
		&term.TermID,
		&term.Name,
		&term.StartDate,
		&term.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find term by ID %s: %w", termID, err)
	}
	return &term, nil
}
