package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one item sold.
type SaleLineRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecordSaleRequest defines the data needed to record a sale.
type RecordSaleRequest struct {
	AccountID          string            `json:"accountID" binding:"required"`
	Number             string            `json:"number" binding:"required"`
	IssueDate          *time.Time        `json:"issueDate"` // Optional, defaults to today
	Lines              []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount           decimal.Decimal   `json:"discount"`
	EnforceCreditLimit bool              `json:"enforceCreditLimit"`
}

// ReturnLineRequest is one item returned.
type ReturnLineRequest struct {
	ItemID    string          `json:"itemID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// RecordReturnRequest defines the data needed to issue a credit note.
// Lines are required for RETURNED_GOODS and forbidden otherwise.
type RecordReturnRequest struct {
	AccountID        string                  `json:"accountID" binding:"required"`
	Number           string                  `json:"number" binding:"required"`
	Date             *time.Time              `json:"date"`
	Reason           domain.CreditNoteReason `json:"reason" binding:"required,oneof=RETURNED_GOODS EXPENSE_REIMBURSEMENT DAMAGES OTHER"`
	Amount           decimal.Decimal         `json:"amount"` // Derived from lines for RETURNED_GOODS
	Lines            []ReturnLineRequest     `json:"lines" binding:"dive"`
	RelatedInvoiceID *string                 `json:"relatedInvoiceID"`
}
