package domain

// SaleRecord is the outcome of the sale workflow: the invoice submitted to the
// persistence service and the stock deductions it produced.
type SaleRecord struct {
	Invoice      Invoice                   `json:"invoice"`
	StockEntries []StockAdjustmentLogEntry `json:"stockEntries"`
	Credit       CreditEvaluation          `json:"credit"`
}

// ReturnRecord is the outcome of the return workflow.
type ReturnRecord struct {
	CreditNote   CreditNote                `json:"creditNote"`
	StockEntries []StockAdjustmentLogEntry `json:"stockEntries"`
}
