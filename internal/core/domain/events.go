package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topics for domain events published after a successful commit.
const (
	TopicStockAdjusted  = "stock.adjusted"
	TopicSaleRecorded   = "sale.recorded"
	TopicReturnRecorded = "return.recorded"
)

// StockAdjustedEvent is emitted for every appended log entry.
type StockAdjustedEvent struct {
	EntryID          string          `json:"entryID"`
	LogNumber        int64           `json:"logNumber"`
	ItemID           string          `json:"itemID"`
	AdjustmentType   AdjustmentType  `json:"adjustmentType"`
	QuantityAdjusted decimal.Decimal `json:"quantityAdjusted"`
	NewStock         decimal.Decimal `json:"newStock"`
	ReversesEntryID  *string         `json:"reversesEntryID,omitempty"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// NewStockAdjustedEvent builds the event for a log entry.
func NewStockAdjustedEvent(e StockAdjustmentLogEntry) StockAdjustedEvent {
	return StockAdjustedEvent{
		EntryID:          e.EntryID,
		LogNumber:        e.LogNumber,
		ItemID:           e.ItemID,
		AdjustmentType:   e.AdjustmentType,
		QuantityAdjusted: e.QuantityAdjusted,
		NewStock:         e.NewStock,
		ReversesEntryID:  e.ReversesEntryID,
		OccurredAt:       e.CreatedAt,
	}
}

// DocumentRecordedEvent is emitted when a sale or return reaches the persistence service.
type DocumentRecordedEvent struct {
	DocumentID    string          `json:"documentID"`
	Number        string          `json:"number"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	StockEntryIDs []string        `json:"stockEntryIDs"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
