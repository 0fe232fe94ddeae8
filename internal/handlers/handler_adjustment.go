package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adjustmentHandler handles requests addressed to log entries rather than items.
type adjustmentHandler struct {
	stockService portssvc.StockLedgerSvcFacade
}

func registerAdjustmentRoutes(rg *gin.RouterGroup, ss portssvc.StockLedgerSvcFacade) {
	h := &adjustmentHandler{stockService: ss}

	adjustments := rg.Group("/adjustments")
	{
		adjustments.POST("/batch", h.appendBatch)
		adjustments.GET("/:entryID", h.getAdjustment)
		adjustments.POST("/:entryID/reverse", h.reverseAdjustment)
		adjustments.DELETE("/:entryID", h.reverseAdjustment)
	}
}

// appendBatch godoc
// @Summary Append several adjustments atomically
// @Description Either every entry is applied or none. A failing entry is reported with its index.
// @Tags adjustments
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchAdjustmentRequest true "Entries"
// @Success 201 {object} dto.BatchAdjustmentResponse
// @Failure 400 {object} map[string]interface{} "Invalid entry"
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Failure 422 {object} map[string]interface{} "Insufficient stock"
// @Router /adjustments/batch [post]
func (h *adjustmentHandler) appendBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "request format")
		return
	}

	reqs := make([]domain.AdjustmentRequest, len(req.Entries))
	for i, e := range req.Entries {
		reqs[i] = e.ToAdjustmentRequest(e.ItemID)
	}
	logger.Info("Received batch adjustment", slog.Int("entries", len(reqs)))

	entries, err := h.stockService.AppendBatch(c.Request.Context(), reqs)
	if err != nil {
		respondError(c, err, "Failed to append batch")
		return
	}

	c.JSON(http.StatusCreated, dto.BatchAdjustmentResponse{Entries: dto.ToAdjustmentResponses(entries)})
}

// getAdjustment godoc
// @Summary Get a log entry
// @Tags adjustments
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.AdjustmentResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /adjustments/{entryID} [get]
func (h *adjustmentHandler) getAdjustment(c *gin.Context) {
	entry, err := h.stockService.GetAdjustment(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve adjustment")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdjustmentResponse(entry))
}

// reverseAdjustment godoc
// @Summary Reverse a log entry
// @Description Appends the inverse entry and marks the original superseded. Sale and return entries cannot be reversed here.
// @Tags adjustments
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is protected or already reversed"
// @Failure 422 {object} map[string]string "Reversal would make stock negative"
// @Router /adjustments/{entryID}/reverse [post]
// @Router /adjustments/{entryID} [delete]
func (h *adjustmentHandler) reverseAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger.Info("Received request to reverse adjustment", slog.String("entry_id", entryID))

	reversal, err := h.stockService.ReverseAdjustment(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to reverse adjustment")
		return
	}

	logger.Info("Adjustment reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(reversal))
}
