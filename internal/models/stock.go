package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem represents a row of stock_items.
type StockItem struct {
	ItemID            string          `db:"item_id"`
	SKU               string          `db:"sku"`
	Name              string          `db:"name"`
	Kind              string          `db:"kind"`
	UnitOfMeasure     string          `db:"unit_of_measure"`
	Stock             decimal.Decimal `db:"stock"`
	LowStockThreshold decimal.Decimal `db:"low_stock_threshold"`
	CostPrice         decimal.Decimal `db:"cost_price"`
	SellPrice         decimal.Decimal `db:"sell_price"`
	AuditFields
}

// PriceTier represents a row of stock_price_tiers. Position keeps the tier order.
type PriceTier struct {
	ItemID     string          `db:"item_id"`
	Position   int             `db:"position"`
	PriceLevel string          `db:"price_level"`
	Price      decimal.Decimal `db:"price"`
}

// StockLogEntry represents a row of stock_adjustment_log.
type StockLogEntry struct {
	EntryID          string          `db:"entry_id"`
	LogNumber        int64           `db:"log_number"`
	ItemID           string          `db:"item_id"`
	ItemName         string          `db:"item_name"`
	AdjustmentType   string          `db:"adjustment_type"`
	QuantityAdjusted decimal.Decimal `db:"quantity_adjusted"`
	PreviousStock    decimal.Decimal `db:"previous_stock"`
	NewStock         decimal.Decimal `db:"new_stock"`
	EntryDate        time.Time       `db:"entry_date"`
	Notes            string          `db:"notes"`
	ReversesEntryID  *string         `db:"reverses_entry_id"` // Nullable
	SupersededByID   *string         `db:"superseded_by_id"`  // Nullable
	CreatedAt        time.Time       `db:"created_at"`
}
