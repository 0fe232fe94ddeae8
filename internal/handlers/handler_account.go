package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests related to account standing.
type accountHandler struct {
	balanceService portssvc.BalanceCalculatorSvc
	creditService  portssvc.CreditGuardSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(bs portssvc.BalanceCalculatorSvc, cs portssvc.CreditGuardSvc) *accountHandler {
	return &accountHandler{
		balanceService: bs,
		creditService:  cs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, bs portssvc.BalanceCalculatorSvc, cs portssvc.CreditGuardSvc) {
	h := newAccountHandler(bs, cs)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/credit-check", h.checkCredit)
	}
}

// getBalance godoc
// @Summary Get an account's outstanding balance
// @Description Invoiced minus received minus credited. Cancelled invoices are ignored.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} domain.AccountBalance
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Persistence service unavailable"
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	balance, err := h.balanceService.ComputeBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}

	logger.Debug("Balance computed", slog.String("account_id", accountID), slog.String("balance", balance.Balance.String()))
	c.JSON(http.StatusOK, balance)
}

// checkCredit godoc
// @Summary Evaluate an account against its credit limit
// @Description Advisory only. pendingAmount is the value of the transaction about to be recorded.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   pendingAmount query string false "Pending amount" default(0)
// @Success 200 {object} domain.CreditEvaluation
// @Failure 400 {object} map[string]string "Invalid pending amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Persistence service unavailable"
// @Router /accounts/{accountID}/credit-check [get]
func (h *accountHandler) checkCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	pending := decimal.Zero
	if raw := c.Query("pendingAmount"); raw != "" {
		var err error
		if pending, err = decimal.NewFromString(raw); err != nil {
			logger.Warn("Invalid pendingAmount", slog.String("value", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "pendingAmount must be a decimal number"})
			return
		}
	}

	eval, err := h.creditService.Evaluate(c.Request.Context(), accountID, pending)
	if err != nil {
		respondError(c, err, "Failed to evaluate credit")
		return
	}

	logger.Info("Credit evaluated", slog.String("account_id", accountID), slog.String("status", string(eval.Status)))
	c.JSON(http.StatusOK, eval)
}
