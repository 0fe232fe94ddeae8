package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type salesHandler struct {
	salesService portssvc.SalesWorkflowSvc
}

func registerSalesRoutes(rg *gin.RouterGroup, ss portssvc.SalesWorkflowSvc) {
	h := &salesHandler{salesService: ss}

	rg.POST("/sales", h.recordSale)
	rg.POST("/returns", h.recordReturn)
}

// recordSale godoc
// @Summary Record a sale
// @Description Prices each line for the account, checks credit, deducts stock and submits the invoice.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.RecordSaleRequest true "Sale"
// @Success 201 {object} domain.SaleRecord
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account or item not found"
// @Failure 409 {object} map[string]string "Credit limit exceeded"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Failure 503 {object} map[string]string "Persistence service unavailable"
// @Router /sales [post]
func (h *salesHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "request format")
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID), slog.String("number", req.Number))
	logger.Info("Received sale", slog.Int("lines", len(req.Lines)))

	record, err := h.salesService.RecordSale(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to record sale")
		return
	}

	logger.Info("Sale recorded", slog.String("invoice_id", record.Invoice.InvoiceID), slog.String("total", record.Invoice.Total.String()))
	c.JSON(http.StatusCreated, record)
}

// recordReturn godoc
// @Summary Record a return or other credit note
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   return body dto.RecordReturnRequest true "Credit note"
// @Success 201 {object} domain.ReturnRecord
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account or item not found"
// @Failure 503 {object} map[string]string "Persistence service unavailable"
// @Router /returns [post]
func (h *salesHandler) recordReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "request format")
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID), slog.String("number", req.Number))
	logger.Info("Received return", slog.String("reason", string(req.Reason)))

	record, err := h.salesService.RecordReturn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to record return")
		return
	}

	logger.Info("Return recorded", slog.String("credit_note_id", record.CreditNote.CreditNoteID))
	c.JSON(http.StatusCreated, record)
}
