package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// receiptHandler handles HTTP requests related to receipts and allocation.
type receiptHandler struct {
	receiptService    portssvc.ReceiptSvcFacade
	allocationService portssvc.AllocationSvcFacade
	dispatcher        portssvc.AllocationDispatcher
}

// newReceiptHandler creates a new receiptHandler.
func newReceiptHandler(rs portssvc.ReceiptSvcFacade, as portssvc.AllocationSvcFacade, d portssvc.AllocationDispatcher) *receiptHandler {
	return &receiptHandler{
		receiptService:    rs,
		allocationService: as,
		dispatcher:        d,
	}
}

// registerReceiptRoutes registers routes related to receipts. Intake is
// rate-limited; it is the surface the payment gateway hits.
func registerReceiptRoutes(rg *gin.RouterGroup, rs portssvc.ReceiptSvcFacade, as portssvc.AllocationSvcFacade, d portssvc.AllocationDispatcher, rateLimiter *limiter.Limiter) {
	h := newReceiptHandler(rs, as, d)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", middleware.RateLimit(rateLimiter), h.createReceipt)
		receipts.POST("/:receiptID/allocate", h.allocateReceipt)
		receipts.GET("/:receiptID", h.getReceipt)
		receipts.GET("/:receiptID/transactions", h.getReceiptTransactions)
	}
}

// createReceipt records a confirmed payment and enqueues its allocation.
// Replays of the same gateway transaction return the existing receipt.
func (h *receiptHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("trans_id", req.TransID), slog.String("student_id", req.StudentID))
	logger.Info("Received request to record receipt")

	receipt, err := h.receiptService.RecordReceipt(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The receipt already exists; its allocation job already ran or
			// is in flight. Return the stored row.
			logger.Warn("Duplicate receipt submission")
			c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unknown student or term on receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record receipt"})
		}
		return
	}

	h.dispatcher.Enqueue(receipt.ReceiptID)

	logger.Info("Receipt recorded and allocation enqueued", slog.String("receipt_id", receipt.ReceiptID))
	c.JSON(http.StatusAccepted, dto.ToReceiptResponse(receipt))
}

// allocateReceipt runs allocation synchronously for one receipt.
func (h *receiptHandler) allocateReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	logger = logger.With(slog.String("receipt_id", receiptID))
	logger.Info("Received request to allocate receipt")

	result, err := h.allocationService.AllocatePayment(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Receipt not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Receipt already allocated")
			c.JSON(http.StatusConflict, gin.H{"error": "Receipt is already allocated"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Concurrent allocation in flight")
			c.JSON(http.StatusConflict, gin.H{"error": "Another allocation for this student is in progress, retry shortly"})
		} else {
			logger.Error("Failed to allocate receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate receipt"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// getReceipt retrieves a receipt by ID.
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		} else {
			logger.Error("Failed to get receipt", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve receipt"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// getReceiptTransactions retrieves the ledger rows written for a receipt.
func (h *receiptHandler) getReceiptTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	transactions, err := h.receiptService.GetReceiptTransactions(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		} else {
			logger.Error("Failed to get receipt transactions", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve receipt transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(transactions))
}
