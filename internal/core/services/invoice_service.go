package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// invoiceService creates and mutates invoices. Invoice amounts are always
// recomputed from the attached particulars at the mutation site, never
// edited directly.
type invoiceService struct {
	invoiceRepo      portsrepo.InvoiceRepositoryFacade
	feeStructureRepo portsrepo.FeeStructureReader
	feeStatusRepo    portsrepo.FeeStatusRepositoryFacade
	studentRepo      portsrepo.StudentReader
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	feeStructureRepo portsrepo.FeeStructureReader,
	feeStatusRepo portsrepo.FeeStatusRepositoryFacade,
	studentRepo portsrepo.StudentReader,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:      invoiceRepo,
		feeStructureRepo: feeStructureRepo,
		feeStatusRepo:    feeStatusRepo,
		studentRepo:      studentRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice creates a Pending invoice from the given particulars and
// posts the billed total into the student's fee status as a negative
// arrears delta, keyed by the invoice number.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	student, err := s.studentRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", req.StudentID, err)
	}
	if _, err := s.studentRepo.FindTermByID(ctx, req.TermID); err != nil {
		return nil, fmt.Errorf("term %s: %w", req.TermID, err)
	}

	// One invoice per student and term.
	existing, err := s.invoiceRepo.ListInvoicesByStudent(ctx, req.StudentID, nil)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].TermID == req.TermID {
			return nil, fmt.Errorf("%w: student %s already has invoice %s for term %s",
				apperrors.ErrDuplicate, req.StudentID, existing[i].InvoiceNo, req.TermID)
		}
	}

	particulars, err := s.feeStructureRepo.FindParticularsByIDs(ctx, req.ParticularIDs)
	if err != nil {
		return nil, err
	}
	if len(particulars) != len(req.ParticularIDs) {
		return nil, fmt.Errorf("%w: %d of %d fee particulars not found",
			apperrors.ErrValidation, len(req.ParticularIDs)-len(particulars), len(req.ParticularIDs))
	}

	invoiceNo, err := s.nextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID: uuid.NewString(),
		InvoiceNo: invoiceNo,
		StudentID: req.StudentID,
		TermID:    req.TermID,
		State:     domain.InvoicePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	invoice.RecomputeAmount(particulars)

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, req.ParticularIDs); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}

	// The billed total pushes the student's running net position down.
	if _, err := appendFeeStatus(ctx, s.feeStatusRepo, student, req.TermID, invoice.Amount.Neg(), invoice.InvoiceNo); err != nil {
		return nil, fmt.Errorf("updating fee status: %w", err)
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_no", invoice.InvoiceNo),
		slog.String("student_id", invoice.StudentID),
		slog.String("amount", invoice.Amount.String()),
	)
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// UpdateParticulars attaches and/or detaches particulars and writes the
// recomputed amount in the same call. Newly attached amounts are posted to
// the student's fee status as a negative arrears delta.
func (s *invoiceService) UpdateParticulars(ctx context.Context, invoiceID string, req dto.UpdateInvoiceParticularsRequest, updaterUserID string) (*domain.Invoice, error) {
	if len(req.AttachIDs) == 0 && len(req.DetachIDs) == 0 {
		return nil, fmt.Errorf("%w: nothing to attach or detach", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.FindStudentByID(ctx, invoice.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", invoice.StudentID, err)
	}

	current, err := s.feeStructureRepo.FindParticularsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	attached, err := s.feeStructureRepo.FindParticularsByIDs(ctx, req.AttachIDs)
	if err != nil {
		return nil, err
	}
	if len(attached) != len(req.AttachIDs) {
		return nil, fmt.Errorf("%w: %d of %d fee particulars not found",
			apperrors.ErrValidation, len(req.AttachIDs)-len(attached), len(req.AttachIDs))
	}

	detach := make(map[string]bool, len(req.DetachIDs))
	for _, id := range req.DetachIDs {
		detach[id] = true
	}
	next := make([]domain.FeeParticular, 0, len(current)+len(attached))
	have := make(map[string]bool, len(current))
	for _, p := range current {
		if detach[p.ParticularID] {
			continue
		}
		have[p.ParticularID] = true
		next = append(next, p)
	}
	added := make([]domain.FeeParticular, 0, len(attached))
	for _, p := range attached {
		if have[p.ParticularID] || detach[p.ParticularID] {
			continue
		}
		added = append(added, p)
		next = append(next, p)
	}

	now := time.Now().UTC()
	invoice.RecomputeAmount(next)
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = updaterUserID

	if err := s.invoiceRepo.UpdateInvoiceParticulars(ctx, invoiceID, req.AttachIDs, req.DetachIDs, invoice.Amount, updaterUserID, now); err != nil {
		return nil, fmt.Errorf("updating invoice %s particulars: %w", invoiceID, err)
	}

	if len(added) > 0 {
		addedTotal := added[0].Amount
		for _, p := range added[1:] {
			addedTotal = addedTotal.Add(p.Amount)
		}
		if _, err := appendFeeStatus(ctx, s.feeStatusRepo, student, invoice.TermID, addedTotal.Neg(), invoice.InvoiceNo); err != nil {
			return nil, fmt.Errorf("updating fee status: %w", err)
		}
	}

	return invoice, nil
}

// ListStudentInvoices retrieves a student's invoices, optionally filtered
// by state.
func (s *invoiceService) ListStudentInvoices(ctx context.Context, studentID string, state *domain.InvoiceState) ([]domain.Invoice, error) {
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	return s.invoiceRepo.ListInvoicesByStudent(ctx, studentID, state)
}

// nextInvoiceNumber builds the next sequential invoice number in the
// INV\<year>\<seq> format.
func (s *invoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	count, err := s.invoiceRepo.CountInvoices(ctx)
	if err != nil {
		return "", fmt.Errorf("counting invoices: %w", err)
	}
	return fmt.Sprintf(`INV\%d\%04d`, time.Now().UTC().Year(), count+1), nil
}
