package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portssvc "github.com/shulepay/shulepay_backend/internal/core/ports/services"
	"github.com/shulepay/shulepay_backend/internal/dto"
	"github.com/shulepay/shulepay_backend/internal/middleware"
)

// reportHandler handles the read-only student-facing surfaces.
type reportHandler struct {
	reportingService portssvc.ReportingSvcFacade
	invoiceService   portssvc.InvoiceSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportingSvcFacade, is portssvc.InvoiceSvcFacade) *reportHandler {
	return &reportHandler{
		reportingService: rs,
		invoiceService:   is,
	}
}

// registerReportingRoutes registers the per-student reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade, is portssvc.InvoiceSvcFacade) {
	h := newReportHandler(rs, is)

	students := rg.Group("/students/:studentID")
	{
		students.GET("/statement", h.getStatement)
		students.GET("/fee-status", h.getLatestFeeStatus)
		students.GET("/fee-status/history", h.getFeeStatusHistory)
		students.GET("/invoices", h.listInvoices)
	}
}

// getStatement returns billed/paid/balance per particular plus the ledger
// history for the student's term.
func (h *reportHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")
	termID := c.Query("termID")
	if termID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "termID query parameter is required"})
		return
	}

	statement, err := h.reportingService.StudentStatement(c.Request.Context(), studentID, termID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build student statement",
				slog.String("student_id", studentID),
				slog.String("term_id", termID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build statement"})
		}
		return
	}

	c.JSON(http.StatusOK, statement)
}

// getLatestFeeStatus returns the authoritative clearance snapshot.
func (h *reportHandler) getLatestFeeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	status, err := h.reportingService.LatestFeeStatus(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No fee status recorded for student"})
		} else {
			logger.Error("Failed to get fee status", slog.String("student_id", studentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeStatusResponse(status))
}

// getFeeStatusHistory returns the full snapshot audit trail, newest first.
func (h *reportHandler) getFeeStatusHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	history, err := h.reportingService.FeeStatusHistory(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get fee status history", slog.String("student_id", studentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee status history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeStatusResponses(history))
}

// listInvoices lists the student's invoices, optionally filtered by state.
func (h *reportHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	var state *domain.InvoiceState
	if raw := c.Query("state"); raw != "" {
		switch domain.InvoiceState(raw) {
		case domain.InvoicePending, domain.InvoiceCleared:
			s := domain.InvoiceState(raw)
			state = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "state must be Pending or Cleared"})
			return
		}
	}

	invoices, err := h.invoiceService.ListStudentInvoices(c.Request.Context(), studentID, state)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list invoices", slog.String("student_id", studentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponses(invoices))
}
