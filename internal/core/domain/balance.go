package domain

import "github.com/shopspring/decimal"

// AccountBalance is the outstanding balance of an account with its components.
// A positive Balance means the account owes money.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Balance       decimal.Decimal `json:"balance"`
	TotalInvoiced decimal.Decimal `json:"totalInvoiced"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	TotalCredited decimal.Decimal `json:"totalCredited"`
}

// CreditStatus classifies an account's standing against its credit limit.
type CreditStatus string

const (
	CreditOK        CreditStatus = "OK"
	CreditNearLimit CreditStatus = "NEAR_LIMIT"
	CreditOverLimit CreditStatus = "OVER_LIMIT"
)

// CreditEvaluation is the advisory result of a credit check.
type CreditEvaluation struct {
	AccountID string          `json:"accountID"`
	Status    CreditStatus    `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	Limit     decimal.Decimal `json:"limit"`
	Pending   decimal.Decimal `json:"pending"`
	Projected decimal.Decimal `json:"projected"`
	Available decimal.Decimal `json:"available"` // Zero when the limit is unenforced
}
