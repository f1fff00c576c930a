package services

import (
	"context"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
	"github.com/shulepay/shulepay_backend/internal/dto"
)

// AccountSvcFacade manages fee account (votehead), priority level and fee
// particular configuration. These are administrative surfaces; the
// allocation engine only reads them.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	CreatePriorityLevel(ctx context.Context, req dto.CreatePriorityLevelRequest, creatorUserID string) (*domain.PriorityLevel, error)
	ListPriorityLevels(ctx context.Context) ([]domain.PriorityLevel, error)

	CreateFeeParticular(ctx context.Context, req dto.CreateFeeParticularRequest, creatorUserID string) (*domain.FeeParticular, error)
	ListStructureParticulars(ctx context.Context, courseID, moduleID, termID string) ([]domain.FeeParticular, error)
}
