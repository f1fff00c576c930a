package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// accountHandler handles HTTP requests for votehead, priority level and fee
// particular configuration.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers the configuration routes.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade) {
	h := newAccountHandler(as)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
	}

	priorities := rg.Group("/priority-levels")
	{
		priorities.POST("", h.createPriorityLevel)
		priorities.GET("", h.listPriorityLevels)
	}

	particulars := rg.Group("/fee-particulars")
	{
		particulars.POST("", h.createFeeParticular)
		particulars.GET("", h.listStructureParticulars)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *accountHandler) createPriorityLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePriorityLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePriorityLevel", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	level, err := h.accountService.CreatePriorityLevel(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create priority level", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create priority level"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPriorityLevelResponse(level))
}

func (h *accountHandler) listPriorityLevels(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	levels, err := h.accountService.ListPriorityLevels(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list priority levels", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list priority levels"})
		return
	}

	responses := make([]dto.PriorityLevelResponse, len(levels))
	for i := range levels {
		responses[i] = dto.ToPriorityLevelResponse(&levels[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *accountHandler) createFeeParticular(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFeeParticularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFeeParticular", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	particular, err := h.accountService.CreateFeeParticular(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fee particular", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee particular"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeeParticularResponse(particular))
}

// listStructureParticulars lists the fee structure for a course/module/term
// combination, all three passed as query parameters.
func (h *accountHandler) listStructureParticulars(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courseID := c.Query("courseID")
	moduleID := c.Query("moduleID")
	termID := c.Query("termID")
	if courseID == "" || moduleID == "" || termID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "courseID, moduleID and termID query parameters are required"})
		return
	}

	particulars, err := h.accountService.ListStructureParticulars(c.Request.Context(), courseID, moduleID, termID)
	if err != nil {
		logger.Error("Failed to list fee particulars", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fee particulars"})
		return
	}

	responses := make([]dto.FeeParticularResponse, len(particulars))
	for i := range particulars {
		responses[i] = dto.ToFeeParticularResponse(&particulars[i])
	}
	c.JSON(http.StatusOK, responses)
}
