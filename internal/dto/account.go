package dto

import (
	"github.com/shopspring/decimal"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// CreatePriorityLevelRequest defines a new priority level.
type CreatePriorityLevelRequest struct {
	Name string `json:"name" binding:"required"`
	Rank int    `json:"rank" binding:"min=0,max=100"`
}

// CreateAccountRequest defines a new fee account (votehead).
type CreateAccountRequest struct {
	Votehead     string `json:"votehead" binding:"required"`
	Abbreviation string `json:"abbreviation"`
	PriorityID   string `json:"priorityID"`
}

// CreateFeeParticularRequest defines a new fee structure line item.
type CreateFeeParticularRequest struct {
	Name      string          `json:"name" binding:"required"`
	CourseID  string          `json:"courseID" binding:"required"`
	ModuleID  string          `json:"moduleID" binding:"required"`
	TermID    string          `json:"termID" binding:"required"`
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Target    string          `json:"target"`
}

// AccountResponse defines the data returned for a fee account.
type AccountResponse struct {
	AccountID    string `json:"accountID"`
	Votehead     string `json:"votehead"`
	Abbreviation string `json:"abbreviation"`
	PriorityID   string `json:"priorityID,omitempty"`
}

// PriorityLevelResponse defines the data returned for a priority level.
type PriorityLevelResponse struct {
	PriorityID string `json:"priorityID"`
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
}

// FeeParticularResponse defines the data returned for a fee particular.
type FeeParticularResponse struct {
	ParticularID string          `json:"particularID"`
	Name         string          `json:"name"`
	CourseID     string          `json:"courseID"`
	ModuleID     string          `json:"moduleID"`
	TermID       string          `json:"termID"`
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	Target       string          `json:"target"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Votehead:     a.Votehead,
		Abbreviation: a.Abbreviation,
		PriorityID:   a.PriorityID,
	}
}

// ToPriorityLevelResponse converts a domain.PriorityLevel to its DTO.
func ToPriorityLevelResponse(p *domain.PriorityLevel) PriorityLevelResponse {
	return PriorityLevelResponse{
		PriorityID: p.PriorityID,
		Name:       p.Name,
		Rank:       p.Rank,
	}
}

// ToFeeParticularResponse converts a domain.FeeParticular to its DTO.
func ToFeeParticularResponse(p *domain.FeeParticular) FeeParticularResponse {
	return FeeParticularResponse{
		ParticularID: p.ParticularID,
		Name:         p.Name,
		CourseID:     p.CourseID,
		ModuleID:     p.ModuleID,
		TermID:       p.TermID,
		AccountID:    p.AccountID,
		Amount:       p.Amount,
		Target:       string(p.Target),
	}
}
