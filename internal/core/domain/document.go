package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceLine is a single billed item.
type InvoiceLine struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TierApplied string          `json:"tierApplied"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Invoice is a bill issued to a ledger account.
type Invoice struct {
	InvoiceID string          `json:"invoiceID"`
	Number    string          `json:"number"`
	AccountID string          `json:"accountID"`
	IssueDate time.Time       `json:"issueDate"`
	DueDate   time.Time       `json:"dueDate"`
	Items     []InvoiceLine   `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Status    InvoiceStatus   `json:"status"`
}

// CountsTowardBalance reports whether the invoice contributes to the outstanding balance.
func (i Invoice) CountsTowardBalance() bool {
	return i.Status != InvoiceCancelled
}

// Receipt records money received from an account.
type Receipt struct {
	ReceiptID      string          `json:"receiptID"`
	Number         string          `json:"number"`
	AccountID      string          `json:"accountID"`
	Date           time.Time       `json:"date"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Method         string          `json:"method"`
	BankName       *string         `json:"bankName,omitempty"`
	Reference      *string         `json:"reference,omitempty"`
}

// CreditNoteReason explains why a credit note was issued.
type CreditNoteReason string

const (
	ReturnedGoods        CreditNoteReason = "RETURNED_GOODS"
	ExpenseReimbursement CreditNoteReason = "EXPENSE_REIMBURSEMENT"
	Damages              CreditNoteReason = "DAMAGES"
	OtherReason          CreditNoteReason = "OTHER"
)

// CreditNoteLine is a returned item. Only present for ReturnedGoods.
type CreditNoteLine struct {
	ItemID    string          `json:"itemID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreditNote reduces an account's balance.
type CreditNote struct {
	CreditNoteID     string           `json:"creditNoteID"`
	Number           string           `json:"number"`
	AccountID        string           `json:"accountID"`
	Date             time.Time        `json:"date"`
	Amount           decimal.Decimal  `json:"amount"`
	Reason           CreditNoteReason `json:"reason"`
	Items            []CreditNoteLine `json:"items,omitempty"`
	RelatedInvoiceID *string          `json:"relatedInvoiceID,omitempty"`
}

// AccountDocuments groups every balance-affecting document of one account.
type AccountDocuments struct {
	Invoices    []Invoice
	Receipts    []Receipt
	CreditNotes []CreditNote
}
