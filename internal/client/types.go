package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/utils/accounting"
)

const dateLayout = "2006-01-02"

// Money is a currency amount sent as a string with two decimals.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(accounting.FormatMoney(decimal.Decimal(m)))
}

// UnmarshalJSON accepts both "12.30" and 12.3. Amounts finer than a cent are rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("invalid amount %s: more than 2 decimal places", data)
	}
	*m = Money(d)
	return nil
}

// Decimal returns the amount as a decimal.Decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

// Date is an ISO-8601 calendar date.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).UTC().Format(dateLayout))
}

// UnmarshalJSON accepts a calendar date or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date(time.Time{})
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	for _, layout := range []string{dateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Time returns the date as a time.Time.
func (d Date) Time() time.Time {
	return time.Time(d)
}

type accountPayload struct {
	ID               string `json:"id"`
	AccountCode      string `json:"accountCode"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	CreditPeriodDays int    `json:"creditPeriodDays"`
	CreditLimit      Money  `json:"creditLimit"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	BankDetails      string `json:"bankDetails"`
}

type listAccountsResponse struct {
	Accounts []accountPayload `json:"accounts"`
}

type invoiceLinePayload struct {
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   Money           `json:"unitPrice"`
	TierApplied string          `json:"tierApplied,omitempty"`
	LineTotal   Money           `json:"lineTotal"`
}

type invoicePayload struct {
	ID        string               `json:"id"`
	Number    string               `json:"number"`
	AccountID string               `json:"accountId"`
	IssueDate Date                 `json:"issueDate"`
	DueDate   Date                 `json:"dueDate"`
	Items     []invoiceLinePayload `json:"items"`
	Subtotal  Money                `json:"subtotal"`
	Discount  Money                `json:"discount"`
	Tax       Money                `json:"tax"`
	Total     Money                `json:"total"`
	Status    string               `json:"status"`
}

type listInvoicesResponse struct {
	Invoices []invoicePayload `json:"invoices"`
}

type receiptPayload struct {
	ID             string  `json:"id"`
	Number         string  `json:"number"`
	AccountID      string  `json:"accountId"`
	Date           Date    `json:"date"`
	AmountReceived Money   `json:"amountReceived"`
	Method         string  `json:"method"`
	BankName       *string `json:"bankName,omitempty"`
	Reference      *string `json:"reference,omitempty"`
}

type listReceiptsResponse struct {
	Receipts []receiptPayload `json:"receipts"`
}

type creditNoteLinePayload struct {
	ItemID    string          `json:"itemId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice Money           `json:"unitPrice"`
}

type creditNotePayload struct {
	ID               string                  `json:"id"`
	Number           string                  `json:"number"`
	AccountID        string                  `json:"accountId"`
	Date             Date                    `json:"date"`
	Amount           Money                   `json:"amount"`
	Reason           string                  `json:"reason"`
	Items            []creditNoteLinePayload `json:"items,omitempty"`
	RelatedInvoiceID *string                 `json:"relatedInvoiceId,omitempty"`
}

type listCreditNotesResponse struct {
	CreditNotes []creditNotePayload `json:"creditNotes"`
}

type saleRequest struct {
	Invoice       invoicePayload `json:"invoice"`
	StockEntryIDs []string       `json:"stockEntryIds"`
}

type returnRequest struct {
	CreditNote    creditNotePayload `json:"creditNote"`
	StockEntryIDs []string          `json:"stockEntryIds"`
}
