package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// accountService manages votehead, priority level and fee particular
// configuration.
type accountService struct {
	accountRepo      portsrepo.AccountRepositoryFacade
	feeStructureRepo portsrepo.FeeStructureRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, feeStructureRepo portsrepo.FeeStructureRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:      accountRepo,
		feeStructureRepo: feeStructureRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a fee account, optionally bound to a priority level.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if req.PriorityID != "" {
		levels, err := s.accountRepo.ListPriorityLevels(ctx)
		if err != nil {
			return nil, err
		}
		found := false
		for i := range levels {
			if levels[i].PriorityID == req.PriorityID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: priority level %s not found", apperrors.ErrValidation, req.PriorityID)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Votehead:     req.Votehead,
		Abbreviation: req.Abbreviation,
		PriorityID:   req.PriorityID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	return &account, nil
}

// ListAccounts retrieves every configured account.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// CreatePriorityLevel creates a priority level. Rank 100 marks full
// priority; everything else shares proportionally.
func (s *accountService) CreatePriorityLevel(ctx context.Context, req dto.CreatePriorityLevelRequest, creatorUserID string) (*domain.PriorityLevel, error) {
	if req.Rank < 0 || req.Rank > 100 {
		return nil, fmt.Errorf("%w: rank must be between 0 and 100", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	level := domain.PriorityLevel{
		PriorityID: uuid.NewString(),
		Name:       req.Name,
		Rank:       req.Rank,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.accountRepo.SavePriorityLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("saving priority level: %w", err)
	}
	return &level, nil
}

// ListPriorityLevels retrieves every priority level ordered by rank.
func (s *accountService) ListPriorityLevels(ctx context.Context) ([]domain.PriorityLevel, error) {
	return s.accountRepo.ListPriorityLevels(ctx)
}

// CreateFeeParticular creates a fee structure line item bound to an account.
func (s *accountService) CreateFeeParticular(ctx context.Context, req dto.CreateFeeParticularRequest, creatorUserID string) (*domain.FeeParticular, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: particular amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, fmt.Errorf("account %s: %w", req.AccountID, err)
	}

	target := domain.TargetStudent
	if req.Target != "" {
		switch domain.TargetScope(req.Target) {
		case domain.TargetStudent, domain.TargetClass, domain.TargetCourse:
			target = domain.TargetScope(req.Target)
		default:
			return nil, fmt.Errorf("%w: unknown target scope %q", apperrors.ErrValidation, req.Target)
		}
	}

	now := time.Now().UTC()
	particular := domain.FeeParticular{
		ParticularID: uuid.NewString(),
		Name:         req.Name,
		CourseID:     req.CourseID,
		ModuleID:     req.ModuleID,
		TermID:       req.TermID,
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Target:       target,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.feeStructureRepo.SaveParticular(ctx, particular); err != nil {
		return nil, fmt.Errorf("saving fee particular: %w", err)
	}
	return &particular, nil
}

// ListStructureParticulars retrieves the fee structure for a
// course/module/term combination.
func (s *accountService) ListStructureParticulars(ctx context.Context, courseID, moduleID, termID string) ([]domain.FeeParticular, error) {
	return s.feeStructureRepo.FindParticularsByStructure(ctx, courseID, moduleID, termID)
}
