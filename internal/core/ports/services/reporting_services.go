package services

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// ReportingSvcFacade serves the read-only statement and clearance surfaces
// consumed by reporting and UI collaborators.
type ReportingSvcFacade interface {
	// StudentStatement returns billed/paid/balance per particular plus the
	// full transaction history for a student's term.
	StudentStatement(ctx context.Context, studentID, termID string) (*dto.StudentStatementResponse, error)

	// LatestFeeStatus returns the authoritative (most recent) fee status
	// snapshot for a student.
	LatestFeeStatus(ctx context.Context, studentID string) (*domain.FeeStatus, error)

	// FeeStatusHistory returns the full snapshot audit trail, newest first.
	FeeStatusHistory(ctx context.Context, studentID string) ([]domain.FeeStatus, error)
}
