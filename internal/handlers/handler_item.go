package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// itemHandler handles HTTP requests related to stock items and their logs.
type itemHandler struct {
	catalogService portssvc.CatalogSvcFacade
	stockService   portssvc.StockLedgerSvcFacade
	priceService   portssvc.PriceResolverSvc
}

func newItemHandler(cs portssvc.CatalogSvcFacade, ss portssvc.StockLedgerSvcFacade, ps portssvc.PriceResolverSvc) *itemHandler {
	return &itemHandler{
		catalogService: cs,
		stockService:   ss,
		priceService:   ps,
	}
}

// registerItemRoutes registers routes related to stock items.
func registerItemRoutes(rg *gin.RouterGroup, cs portssvc.CatalogSvcFacade, ss portssvc.StockLedgerSvcFacade, ps portssvc.PriceResolverSvc) {
	h := newItemHandler(cs, ss, ps)

	items := rg.Group("/items")
	{
		items.POST("", h.saveItem)
		items.GET("", h.listItems)
		items.GET("/low-stock", h.listLowStock)
		items.GET("/:itemID", h.getItem)
		items.DELETE("/:itemID", h.deleteItem)
		items.GET("/:itemID/price", h.resolvePrice)
		items.POST("/:itemID/adjustments", h.createAdjustment)
		items.GET("/:itemID/adjustments", h.listAdjustments)
		items.POST("/:itemID/rebuild", h.rebuildStock)
	}
}

// saveItem godoc
// @Summary Create or update a stock item
// @Description Creates an item when itemID is empty, otherwise updates its descriptive fields and price tiers. Stock of an existing item is never changed.
// @Tags items
// @Accept  json
// @Produce  json
// @Param   item body dto.SaveItemRequest true "Item details"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid input or duplicate price tier"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Duplicate SKU"
// @Failure 500 {object} map[string]string "Failed to save item"
// @Router /items [post]
func (h *itemHandler) saveItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "request format")
		return
	}

	logger.Info("Received request to save item", slog.String("sku", req.SKU), slog.String("item_id", req.ItemID))

	item, err := h.catalogService.SaveItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to save item")
		return
	}

	logger.Info("Item saved successfully", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// listItems godoc
// @Summary List stock items
// @Tags items
// @Produce  json
// @Success 200 {object} dto.ListItemsResponse
// @Failure 500 {object} map[string]string "Failed to list items"
// @Router /items [get]
func (h *itemHandler) listItems(c *gin.Context) {
	items, err := h.catalogService.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToListItemsResponse(items))
}

// listLowStock godoc
// @Summary List items at or below their low-stock threshold
// @Tags items
// @Produce  json
// @Success 200 {object} dto.ListItemsResponse
// @Failure 500 {object} map[string]string "Failed to list items"
// @Router /items/low-stock [get]
func (h *itemHandler) listLowStock(c *gin.Context) {
	items, err := h.catalogService.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list low-stock items")
		return
	}
	c.JSON(http.StatusOK, dto.ToListItemsResponse(items))
}

// getItem godoc
// @Summary Get a stock item by ID
// @Tags items
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to retrieve item"
// @Router /items/{itemID} [get]
func (h *itemHandler) getItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("itemID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// deleteItem godoc
// @Summary Delete a stock item
// @Description Only items with zero stock can be deleted. The adjustment log is kept.
// @Tags items
// @Param   itemID path string true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Item still holds stock"
// @Failure 500 {object} map[string]string "Failed to delete item"
// @Router /items/{itemID} [delete]
func (h *itemHandler) deleteItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")
	logger.Info("Received request to delete item", slog.String("item_id", itemID))

	if err := h.catalogService.DeleteItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err, "Failed to delete item")
		return
	}

	logger.Info("Item deleted successfully", slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// resolvePrice godoc
// @Summary Resolve the price an account pays for an item
// @Tags items
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   accountID query string true "Account ID"
// @Success 200 {object} dto.PriceResponse
// @Failure 400 {object} map[string]string "accountID missing"
// @Failure 404 {object} map[string]string "Item or account not found"
// @Failure 503 {object} map[string]string "Persistence service unavailable"
// @Router /items/{itemID}/price [get]
func (h *itemHandler) resolvePrice(c *gin.Context) {
	itemID := c.Param("itemID")
	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID query parameter is required"})
		return
	}

	res, err := h.priceService.ResolvePriceForAccount(c.Request.Context(), itemID, accountID)
	if err != nil {
		respondError(c, err, "Failed to resolve price")
		return
	}

	c.JSON(http.StatusOK, dto.PriceResponse{
		ItemID:      itemID,
		AccountID:   accountID,
		Price:       res.Price,
		TierApplied: res.TierApplied,
	})
}

// createAdjustment godoc
// @Summary Append a manual stock adjustment
// @Tags adjustments
// @Accept  json
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   adjustment body dto.CreateAdjustmentRequest true "Adjustment"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Failed to append adjustment"
// @Router /items/{itemID}/adjustments [post]
func (h *itemHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")
	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "request format")
		return
	}

	logger = logger.With(slog.String("item_id", itemID))
	logger.Info("Received request to adjust stock", slog.String("type", string(req.AdjustmentType)), slog.String("delta", req.QuantityDelta.String()))

	entry, err := h.stockService.AppendAdjustment(c.Request.Context(), req.ToAdjustmentRequest(itemID))
	if err != nil {
		respondError(c, err, "Failed to append adjustment")
		return
	}

	logger.Info("Stock adjusted", slog.Int64("log_number", entry.LogNumber), slog.String("new_stock", entry.NewStock.String()))
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(entry))
}

// listAdjustments godoc
// @Summary List an item's adjustment log, newest first
// @Tags adjustments
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAdjustmentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /items/{itemID}/adjustments [get]
func (h *itemHandler) listAdjustments(c *gin.Context) {
	var params dto.ListAdjustmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "query parameters")
		return
	}

	resp, err := h.stockService.ListAdjustments(c.Request.Context(), c.Param("itemID"), params)
	if err != nil {
		respondError(c, err, "Failed to list adjustments")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// rebuildStock godoc
// @Summary Replay an item's log and compare it with the stored stock
// @Tags adjustments
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   repair query bool false "Overwrite the stored stock when it drifted"
// @Success 200 {object} domain.StockRebuild
// @Failure 400 {object} map[string]string "Invalid repair flag"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /items/{itemID}/rebuild [post]
func (h *itemHandler) rebuildStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	repair := false
	if raw := c.Query("repair"); raw != "" {
		var err error
		if repair, err = strconv.ParseBool(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "repair must be a boolean"})
			return
		}
	}

	res, err := h.stockService.RebuildStock(c.Request.Context(), c.Param("itemID"), repair)
	if err != nil {
		respondError(c, err, "Failed to rebuild stock")
		return
	}

	if !res.Drift.IsZero() {
		logger.Warn("Stock drift detected", slog.String("item_id", res.ItemID), slog.String("drift", res.Drift.String()), slog.Bool("repaired", res.Repaired))
	}
	c.JSON(http.StatusOK, res)
}
