package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes sellable goods from production inputs.
type ItemKind string

const (
	FinishedGood ItemKind = "FINISHED_GOOD"
	RawMaterial  ItemKind = "RAW_MATERIAL"
)

// PriceTier is an item-specific price for one price level.
type PriceTier struct {
	PriceLevel string          `json:"priceLevel" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
}

// StockItem is a stock-bearing item. Stock is a projection of the adjustment log.
type StockItem struct {
	ItemID            string          `json:"itemID"`
	SKU               string          `json:"sku" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Kind              ItemKind        `json:"kind" validate:"required,oneof=FINISHED_GOOD RAW_MATERIAL"`
	UnitOfMeasure     string          `json:"unitOfMeasure" validate:"required"`
	Stock             decimal.Decimal `json:"stock"`
	LowStockThreshold decimal.Decimal `json:"lowStockThreshold" validate:"gte=0"`
	CostPrice         decimal.Decimal `json:"costPrice" validate:"gte=0"`
	SellPrice         decimal.Decimal `json:"sellPrice" validate:"gte=0"`
	PriceTiers        []PriceTier     `json:"priceTiers" validate:"dive"`
	AuditFields
}

// IsLowStock reports whether stock is at or below the item's threshold.
func (i StockItem) IsLowStock() bool {
	return i.Stock.LessThanOrEqual(i.LowStockThreshold)
}

// AdjustmentType identifies the cause of a stock change.
type AdjustmentType string

const (
	Addition                 AdjustmentType = "ADDITION"
	ManualCorrectionAdd      AdjustmentType = "MANUAL_CORRECTION_ADD"
	ManualCorrectionSubtract AdjustmentType = "MANUAL_CORRECTION_SUBTRACT"
	SaleDeduction            AdjustmentType = "SALE_DEDUCTION"
	ReturnAddition           AdjustmentType = "RETURN_ADDITION"
)

// IsProtected reports whether entries of this type belong to the sales/return
// workflow and may not be reversed or retyped elsewhere.
func (t AdjustmentType) IsProtected() bool {
	return t == SaleDeduction || t == ReturnAddition
}

// IsIncrease reports whether the type must carry a positive quantity.
func (t AdjustmentType) IsIncrease() bool {
	return t == Addition || t == ManualCorrectionAdd || t == ReturnAddition
}

// IsValid reports whether t is a known adjustment type.
func (t AdjustmentType) IsValid() bool {
	switch t {
	case Addition, ManualCorrectionAdd, ManualCorrectionSubtract, SaleDeduction, ReturnAddition:
		return true
	}
	return false
}

// CorrectionTypeFor returns the manual correction type matching the sign of delta.
func CorrectionTypeFor(delta decimal.Decimal) AdjustmentType {
	if delta.IsNegative() {
		return ManualCorrectionSubtract
	}
	return ManualCorrectionAdd
}

// StockAdjustmentLogEntry is one immutable row of the stock adjustment log.
type StockAdjustmentLogEntry struct {
	EntryID          string          `json:"entryID"`
	LogNumber        int64           `json:"logNumber"`
	ItemID           string          `json:"itemID"`
	ItemName         string          `json:"itemName"`
	AdjustmentType   AdjustmentType  `json:"adjustmentType"`
	QuantityAdjusted decimal.Decimal `json:"quantityAdjusted"`
	PreviousStock    decimal.Decimal `json:"previousStock"`
	NewStock         decimal.Decimal `json:"newStock"`
	Date             time.Time       `json:"date"`
	Notes            string          `json:"notes"`
	ReversesEntryID  *string         `json:"reversesEntryID,omitempty"`
	SupersededByID   *string         `json:"supersededByID,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// IsSuperseded reports whether a later reversal has cancelled this entry.
func (e StockAdjustmentLogEntry) IsSuperseded() bool {
	return e.SupersededByID != nil
}

// IsReversal reports whether this entry cancels another one.
func (e StockAdjustmentLogEntry) IsReversal() bool {
	return e.ReversesEntryID != nil
}

// AdjustmentRequest describes a single stock change to append to the log.
type AdjustmentRequest struct {
	ItemID        string
	QuantityDelta decimal.Decimal
	Type          AdjustmentType
	Notes         string
	Date          time.Time
	AllowNegative bool
	// ReversesEntryID links a counter-entry to the entry it cancels.
	ReversesEntryID *string
}

// Validate checks the request shape. It does not look at current stock.
func (r AdjustmentRequest) Validate() error {
	if r.ItemID == "" {
		return fmt.Errorf("item ID is required")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown adjustment type %q", r.Type)
	}
	if r.QuantityDelta.IsZero() {
		return fmt.Errorf("quantity adjusted must be non-zero")
	}
	if r.Type.IsIncrease() && r.QuantityDelta.IsNegative() {
		return fmt.Errorf("adjustment type %s requires a positive quantity, got %s", r.Type, r.QuantityDelta)
	}
	if !r.Type.IsIncrease() && r.QuantityDelta.IsPositive() {
		return fmt.Errorf("adjustment type %s requires a negative quantity, got %s", r.Type, r.QuantityDelta)
	}
	return nil
}

// StockRebuild compares the materialized stock with the total replayed from the log.
type StockRebuild struct {
	ItemID          string          `json:"itemID"`
	MaterializedQty decimal.Decimal `json:"materializedQty"`
	LedgerQty       decimal.Decimal `json:"ledgerQty"`
	Drift           decimal.Decimal `json:"drift"`
	EntryCount      int             `json:"entryCount"`
	Repaired        bool            `json:"repaired"`
}
